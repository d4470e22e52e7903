package httpx

import (
	"net/http"
	"strings"
)

// editableProfileFields are the form fields forwarded to the Identity API.
var editableProfileFields = []string{"first_name", "last_name", "email", "phone_number", "preferred_language"}

// Profile shows the signed-in user's profile.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Profile", CurrentPage: PageProfile}).Build()
	h.addProfile(r, data)
	h.page(w, r, http.StatusOK, data)
}

// ProfileUpdate saves the non-empty profile fields and refreshes the session's user.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Pages.Error(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	fields := make(map[string]any)
	for _, name := range editableProfileFields {
		if v := strings.TrimSpace(r.PostFormValue(name)); v != "" {
			fields[name] = v
		}
	}

	b := NewTemplateData(r, PageMeta{Title: "Profile", CurrentPage: PageProfile})
	status := http.StatusOK
	if len(fields) == 0 {
		b.WithError("Nothing to update.")
		status = http.StatusUnprocessableEntity
	} else if _, err := h.Profiles.Update(r.Context(), client.Session, fields); err != nil {
		if DetermineErrorStatus(err) == http.StatusUnauthorized {
			h.dataError(w, r, err)
			return
		}
		status = DetermineErrorStatus(err)
		b.WithError(UserMessage(err))
	} else {
		b.With("Saved", true)
	}

	data := b.Build()
	h.addProfile(r, data)
	if IsHTMX(r) {
		status = http.StatusOK
	}
	h.page(w, r, status, data)
}

func (h *UIHandlers) addProfile(r *http.Request, data map[string]any) {
	client, ok := ClientFromContext(r.Context())
	if !ok {
		return
	}
	if u := client.Session.Snapshot().User; u != nil {
		data["Profile"] = u
	}
}

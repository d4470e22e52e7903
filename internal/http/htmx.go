package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	hxRequestHeader        = "Hx-Request"
	hxHistoryRestoreHeader = "Hx-History-Restore-Request"
	hxRedirectHeader       = "Hx-Redirect"
	hxTriggerHeader        = "Hx-Trigger"
)

func headerTrue(r *http.Request, name string) bool {
	return strings.EqualFold(r.Header.Get(name), "true")
}

// IsHTMX reports whether htmx issued the request.
func IsHTMX(r *http.Request) bool { return headerTrue(r, hxRequestHeader) }

// WantsPartial reports whether only the content fragment should be rendered.
// A history restore after a cache miss needs the whole document.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !headerTrue(r, hxHistoryRestoreHeader)
}

// HXResponse collects htmx response headers. Events accumulate into a single
// Hx-Trigger object.
type HXResponse struct {
	w      http.ResponseWriter
	events map[string]any
}

// HTMX starts an htmx response on w.
func HTMX(w http.ResponseWriter) *HXResponse {
	return &HXResponse{w: w}
}

// Trigger fires a client-side event after the swap. A nil payload sends true.
func (h *HXResponse) Trigger(event string, payload any) *HXResponse {
	if h.events == nil {
		h.events = make(map[string]any, 1)
	}
	if payload == nil {
		payload = true
	}
	h.events[event] = payload

	b, err := json.Marshal(h.events)
	if err != nil {
		// Unencodable payload: fire the bare event rather than nothing.
		h.events[event] = true
		b, _ = json.Marshal(h.events)
	}
	h.w.Header().Set(hxTriggerHeader, string(b))
	return h
}

// Redirect makes htmx navigate the whole page to url and ends the response
// with 204 No Content. The handler must not write afterwards.
func (h *HXResponse) Redirect(url string) {
	h.w.Header().Set(hxRedirectHeader, url)
	h.w.WriteHeader(http.StatusNoContent)
}

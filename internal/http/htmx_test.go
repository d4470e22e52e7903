package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWantsPartial(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))

	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.False(t, WantsPartial(r), "history restore gets the full document")
}

func TestHXResponse_TriggerThenRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("session:ended", map[string]string{"status": "unauthenticated"}).Redirect("/login")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Hx-Redirect"))

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "unauthenticated", payload["session:ended"]["status"])
}

func TestHXResponse_TriggersAccumulate(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("nav:activate", nil).Trigger("toast", "saved")
	assert.JSONEq(t, `{"nav:activate":true,"toast":"saved"}`, w.Header().Get("Hx-Trigger"))
}

func TestHXResponse_UnencodablePayload(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("broken", make(chan int))
	assert.JSONEq(t, `{"broken":true}`, w.Header().Get("Hx-Trigger"))
}

package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
)

// Events streams session transitions as Server-Sent Events. The first event
// is the current state; later events skip states a slow reader missed.
func (h *UIHandlers) Events(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	updates, unsubscribe := client.Session.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		h.logger().Warn("event stream cannot flush", "error", err)
		return
	}

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, open := <-updates:
			if !open {
				return
			}
			if err := writeSessionEvent(w, state); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeSessionEvent(w io.Writer, s domainauth.State) error {
	b, err := json.Marshal(newStatusResponse(s))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: session\ndata: %s\n\n", b)
	return err
}

package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/notify-service/internal/config"
)

const (
	heartbeatInterval = time.Second
	heartbeatPayload  = "keep-alive-text"
)

// StreamEvents renders the caller's event channel as a server-sent event
// stream. The session holds a fresh cursor, so only events published after
// the connection was opened are visible; events dropped by a full cursor are
// silently skipped. The registry entry survives the session for the next
// connection of the same user.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StreamEvents")

	userID, ok := r.Context().Value(config.KeyUserID).(int64)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("response writer does not support streaming")
		h.writeError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	subscription := h.events.Subscribe(userID)
	defer subscription.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": %s\n\n", heartbeatPayload)
			flusher.Flush()
		case event := <-subscription.C:
			data, err := json.Marshal(event)
			if err != nil {
				// broken frame only, the session keeps going
				logger.Error(fmt.Sprintf("failed to marshal %s event: %v", event.Name(), err))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name(), data)
			flusher.Flush()
		}
	}
}

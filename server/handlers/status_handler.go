package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"anchor-status/api"
	"anchor-status/models/status"
	"anchor-status/server/ws"
	services "anchor-status/service"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const WS_SEND_BUFFER = 8

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type StatusHandler struct {
	statusService *services.StatusService
	hub           *ws.Hub
	now           func() time.Time
}

func NewStatusHandler(statusService *services.StatusService, hub *ws.Hub) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		hub:           hub,
		now:           time.Now,
	}
}

// GetStatus handles GET /v1/status. 204 means there is nothing to show yet.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	view, ok := h.statusService.CurrentView(h.now())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RefreshStatus handles POST /v1/status/refresh. A failed refresh still serves
// the last good status, marked with the error; only an empty cache is an error
// response.
func (h *StatusHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	err := h.statusService.Refresh(r.Context())

	var rl *api.RateLimitError
	switch {
	case errors.As(err, &rl):
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		view, ok := h.statusService.CurrentView(h.now())
		if !ok {
			writeError(w, http.StatusTooManyRequests, status.ErrorCodeRateLimited, "upstream asked us to slow down")
			return
		}
		view.Error = status.ErrorCodeRateLimited
		writeJSON(w, http.StatusOK, view)
		return
	case err != nil:
		log.Warn().Err(err).Msg("[StatusHandler] Refresh failed")
		if _, ok := h.statusService.CurrentView(h.now()); !ok {
			writeError(w, http.StatusBadGateway, status.ErrorCodeUpstreamUnavailable, "could not fetch business hours")
			return
		}
	}

	h.GetStatus(w, r)
}

// StatusWebSocket handles GET /v1/status/ws: the current status is sent on
// connect and again on every update.
func (h *StatusHandler) StatusWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[StatusHandler] WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, WS_SEND_BUFFER)
	h.hub.Attach(client)
	if view, ok := h.statusService.CurrentView(h.now()); ok {
		h.sendView(client, view)
	}

	go client.WritePump()
	client.ReadPump()
}

// Publish pushes the current status to every WebSocket client.
func (h *StatusHandler) Publish(_ services.PollerSnapshot) {
	if h.hub.Count() == 0 {
		return
	}
	view, ok := h.statusService.CurrentView(h.now())
	if !ok {
		return
	}
	h.hub.Broadcast(view)
}

func (h *StatusHandler) sendView(client *ws.Client, view *status.StatusView) {
	data, err := json.Marshal(view)
	if err != nil {
		log.Error().Err(err).Msg("[StatusHandler] Could not marshal status")
		return
	}
	client.Send(data)
}

// Ping handles GET /ping
func (h *StatusHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

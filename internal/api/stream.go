package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/catalog-browser/internal/api/middleware"
	"github.com/example/catalog-browser/internal/metrics"
	"github.com/example/catalog-browser/internal/query"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
}

// StreamHandler pushes the catalog read model over a WebSocket after every commit
type StreamHandler struct {
	queryHandler *query.Handler
}

func NewStreamHandler(queryHandler *query.Handler) *StreamHandler {
	return &StreamHandler{queryHandler: queryHandler}
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	states, cancel, err := h.queryHandler.Subscribe(sessionID)
	if err != nil {
		respondCommandError(w, err)
		return
	}
	defer cancel()

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] Failed to upgrade stream: %v", err)
		return
	}
	defer ws.Close()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()
	log.Printf("[API] Stream opened for session %s", sessionID)

	// the read loop only exists to observe pongs and close frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		ws.SetReadLimit(512)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Printf("[API] Stream closed for session %s", sessionID)
			return
		case <-r.Context().Done():
			return
		case state, ok := <-states:
			if !ok {
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
					time.Now().Add(writeWait))
				return
			}
			view := query.BuildCatalogView(state)
			view.SessionID = sessionID
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(view); err != nil {
				log.Printf("[API] Failed to write stream message: %v", err)
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

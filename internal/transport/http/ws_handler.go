package http

import (
	"log"
	"net/http"

	"waterwise-quiz-service/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler streams progress events to a participant as they submit screens.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the connection and forwards progress events until the
// client disconnects. The session rides the usual cookie, with a sessionId
// query fallback for clients that cannot send cookies on the upgrade.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := currentSessionID(r)
	if !ok {
		sessionID = r.URL.Query().Get("sessionId")
	}
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Subscribe(sessionID)
	defer cancel()

	// Reader goroutine exists only to observe the close from the client side.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.ProgressEvent]{Type: "progress", Payload: event}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}

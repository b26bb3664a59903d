package realtime

import (
	"net/http"
	"strconv"

	"blockgen/pkg"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated request. The JWT comes in the token
// query param; an optional project param subscribes the client right away,
// which is what the editor's preview pane does.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := pkg.ValidateToken(token, jwtSecret)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var projectID uint
	if raw := query.Get("project"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			http.Error(w, "invalid project", http.StatusBadRequest)
			return
		}
		projectID = uint(id)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := NewClient(hub, conn)
	if !deliver(hub, hub.register, client) {
		conn.Close()
		return
	}
	if projectID != 0 {
		deliver(hub, hub.subscribe, subscribeMsg{client: client, projectID: projectID})
	}
	hub.logger.Debug().Uint("userId", claims.UserID).Uint("projectId", projectID).Msg("WebSocket connected")

	go client.WritePump()
	go client.ReadPump()
}

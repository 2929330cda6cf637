package relay

import (
	"log/slog"
	"net/http"

	"chat-relay/auth"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server owns the single hub instance and the gateway handle, and turns
// authenticated upgrade requests into running sessions.
type Server struct {
	hub     *Hub
	gateway Gateway
	metrics Metrics
	log     *slog.Logger
}

func NewServer(hub *Hub, gateway Gateway, metrics Metrics, log *slog.Logger) *Server {
	return &Server{hub: hub, gateway: gateway, metrics: metrics, log: log}
}

// Hub exposes the shared hub, for read paths that report its counters.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP authenticates the upgrade request, performs the protocol upgrade
// and serves the session until the connection dies. Authentication happens
// strictly before the upgrade: a rejected credential means no session object
// and no hub subscription ever exist.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromQuery(r)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	s.metrics.IncrSessionsOpened()
	s.log.Info("session opened", "identity", string(identity), "remote", r.RemoteAddr)

	session := NewSession(identity, conn, s.hub, s.gateway, s.metrics, s.log)
	session.Run(r.Context())

	s.metrics.IncrSessionsClosed()
	s.log.Info("session closed", "identity", string(identity), "remote", r.RemoteAddr)
}

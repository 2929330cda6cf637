package api

import (
	"net/http"
	"path/filepath"
)

// Router assembles the full HTTP surface: auth endpoints, read paths, the
// WebSocket upgrade route and optional static assets.
func (h *Handler) Router(assetsDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)

	mux.HandleFunc("GET /channels", requireAuth(h.listChannels))
	mux.HandleFunc("GET /users", requireAuth(h.listUsers))
	mux.HandleFunc("GET /history", requireAuth(h.channelHistory))
	mux.HandleFunc("GET /dm_history", requireAuth(h.directHistory))
	mux.HandleFunc("POST /channels/reads", requireAuth(h.markChannelRead))
	mux.HandleFunc("GET /stats", requireAuth(h.stats))

	// The relay authenticates the upgrade itself (credential in the query
	// string, not a bearer header).
	mux.Handle("GET /ws", h.relayServer)

	if assetsDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/",
			http.FileServer(http.Dir(assetsDir))))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(assetsDir, "index.html"))
		})
	}

	return mux
}

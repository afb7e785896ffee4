package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sportsfest/livescore/internal/auth"
	"github.com/sportsfest/livescore/internal/broadcast"
	"github.com/sportsfest/livescore/internal/domain"
	"github.com/sportsfest/livescore/internal/scoring"
	"github.com/sportsfest/livescore/internal/storage"
)

// Router holds the HTTP routes and dependencies
type Router struct {
	mux       *http.ServeMux
	store     *storage.Store
	coord     *scoring.Coordinator
	bus       *broadcast.Bus
	wsHub     *WebSocketHub
	auth      *auth.Service
	staticDir string
}

// NewRouter creates a new HTTP router
func NewRouter(store *storage.Store, coord *scoring.Coordinator, bus *broadcast.Bus, authService *auth.Service, staticDir string) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		store:     store,
		coord:     coord,
		bus:       bus,
		wsHub:     NewWebSocketHub(),
		auth:      authService,
		staticDir: staticDir,
	}

	// Public read routes
	r.mux.HandleFunc("GET /api/matches", r.handleListMatches)
	r.mux.HandleFunc("GET /api/matches/{id}", r.handleGetMatch)
	r.mux.HandleFunc("GET /api/matches/{id}/fouls", r.handleGetFouls)
	r.mux.HandleFunc("GET /api/matches/{id}/suspensions", r.handleGetSuspensions)
	r.mux.HandleFunc("GET /api/departments", r.handleListDepartments)
	r.mux.HandleFunc("GET /api/departments/{id}", r.handleGetDepartment)

	// Match management (authenticated scorers)
	r.mux.HandleFunc("POST /api/matches", r.requireAuth(r.handleCreateMatch))
	r.mux.HandleFunc("DELETE /api/matches/{id}", r.requireAdmin(r.handleDeleteMatch))
	r.mux.HandleFunc("POST /api/matches/{id}/actions", r.requireAuth(r.handleMatchAction))
	r.mux.HandleFunc("POST /api/matches/{id}/status", r.requireAuth(r.handleMatchStatus))
	r.mux.HandleFunc("POST /api/matches/{id}/fouls", r.requireAuth(r.handleAddFoul))
	r.mux.HandleFunc("DELETE /api/matches/{id}/fouls/{foulId}", r.requireAuth(r.handleRemoveFoul))

	// Department management (admin only)
	r.mux.HandleFunc("POST /api/departments", r.requireAdmin(r.handleCreateDepartment))
	r.mux.HandleFunc("PATCH /api/departments/{id}", r.requireAdmin(r.handleUpdateDepartment))
	r.mux.HandleFunc("DELETE /api/departments/{id}", r.requireAdmin(r.handleDeleteDepartment))

	// Auth routes
	r.mux.HandleFunc("POST /api/auth/login", r.handleLogin)
	r.mux.HandleFunc("POST /api/auth/logout", r.handleLogout)
	r.mux.HandleFunc("GET /api/auth/check", r.handleAuthCheck)
	r.mux.HandleFunc("POST /api/auth/change-password", r.requireAuth(r.handleChangePassword))

	// User management routes (admin only)
	r.mux.HandleFunc("GET /api/users", r.requireAdmin(r.handleListUsers))
	r.mux.HandleFunc("POST /api/users", r.requireAdmin(r.handleCreateUser))
	r.mux.HandleFunc("DELETE /api/users/{username}", r.requireAdmin(r.handleDeleteUser))
	r.mux.HandleFunc("PATCH /api/users/{id}", r.requireAdmin(r.handleUpdateUser))
	r.mux.HandleFunc("POST /api/users/{id}/reset-password", r.requireAdmin(r.handleResetUserPassword))

	// WebSocket endpoint for live scoreboards
	r.mux.HandleFunc("GET /ws", r.handleWebSocket)

	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)

	// Static files - only serve if staticDir is configured
	if staticDir != "" {
		r.mux.HandleFunc("GET /", r.handleStatic)
	}

	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// CORS headers for API
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// StartWebSocketHub starts the hub and bridges the broadcast bus into it.
// Every bus event is already a wire-ready envelope, so the bridge forwards
// bytes untouched.
func (r *Router) StartWebSocketHub() {
	go r.wsHub.Run()

	for _, topic := range []string{domain.EventMatchUpdate, domain.EventMatchCreated, domain.EventMatchDeleted} {
		if _, err := r.bus.Subscribe(topic, r.wsHub.BroadcastRaw); err != nil {
			log.Printf("subscribing to %s: %v", topic, err)
		}
	}
}

// handleStatic serves static files from the configured directory
// For SPA support, serves index.html for any path that doesn't match a file
func (r *Router) handleStatic(w http.ResponseWriter, req *http.Request) {
	// Clean the path
	path := filepath.Clean(req.URL.Path)
	if path == "/" {
		path = "/index.html"
	}

	// Construct full file path
	fullPath := filepath.Join(r.staticDir, path)

	// Security: ensure the path is within staticDir
	absStaticDir, _ := filepath.Abs(r.staticDir)
	absPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absPath, absStaticDir) {
		http.NotFound(w, req)
		return
	}

	// Check if file exists
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		// SPA fallback: serve index.html for unknown paths
		fullPath = filepath.Join(r.staticDir, "index.html")
		info, err = os.Stat(fullPath)
		if err != nil {
			http.NotFound(w, req)
			return
		}
	}

	// Set content type based on extension
	contentType := getContentType(fullPath)
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	// Serve the file
	http.ServeFile(w, req, fullPath)
}

// getContentType returns the content type for a file based on extension
func getContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return ""
	}
}

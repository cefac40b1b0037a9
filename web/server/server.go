package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

const (
	minSize = 16
	maxSize = 2000
)

// Server handles web requests for the progressive path tracer
type Server struct {
	port      int
	scenesDir string
	settings  renderer.Settings // Defaults for every render
	upgrader  websocket.Upgrader
}

// NewServer creates a new web server. Scene files are listed from scenesDir.
func NewServer(port int, scenesDir string, settings renderer.Settings) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		settings:  settings,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("static/")))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/ws/render", s.handleRender)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := scene.BuiltinScenes()
	if s.scenesDir != "" {
		files, err := scene.ListSceneFiles(s.scenesDir)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		scenes = append(scenes, files...)
	}
	writeJSON(w, http.StatusOK, scene.GroupScenes(scenes))
}

// createScene resolves a built-in id or a "file:<name>" id from the scenes directory
func (s *Server) createScene(ctx context.Context, id string) (*scene.Scene, error) {
	name, isFile := strings.CutPrefix(id, "file:")
	if !isFile {
		return scene.NewBuiltinScene(id)
	}
	if s.scenesDir == "" {
		return nil, fmt.Errorf("no scenes directory configured")
	}

	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return loaders.LoadScene(ctx, info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene file %q", name)
}

// SceneRequest holds the parameters shared by render and inspect requests
type SceneRequest struct {
	Scene  string `json:"scene"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func parseSceneRequest(values url.Values) (*SceneRequest, error) {
	req := &SceneRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "diffuse-sphere"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 640, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 360, minSize, maxSize); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// Event is a message sent to the browser: "ready", "pass", "console" or "error"
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PassUpdate describes one completed pass
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG at display size
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	PassMs         int64   `json:"passMs"`
	ElapsedMs      int64   `json:"elapsedMs"` // Since the last restart
	PathsPerSecond float64 `json:"pathsPerSecond"`
	PrimitiveCount int     `json:"primitiveCount"`
	Converged      bool    `json:"converged"`
}

// CameraState is the camera as exchanged with the browser
type CameraState struct {
	Position [3]float64 `json:"position"`
	LookAt   [3]float64 `json:"lookAt"`
	Up       [3]float64 `json:"up"`
	VFov     float64    `json:"vfov"`
}

func cameraState(c geometry.CameraConfig) CameraState {
	return CameraState{
		Position: [3]float64{c.Position.X, c.Position.Y, c.Position.Z},
		LookAt:   [3]float64{c.LookAt.X, c.LookAt.Y, c.LookAt.Z},
		Up:       [3]float64{c.Up.X, c.Up.Y, c.Up.Z},
		VFov:     c.VFov,
	}
}

func (c CameraState) config(aspect float64) geometry.CameraConfig {
	return geometry.CameraConfig{
		Position:    core.NewVec3(c.Position[0], c.Position[1], c.Position[2]),
		LookAt:      core.NewVec3(c.LookAt[0], c.LookAt[1], c.LookAt[2]),
		Up:          core.NewVec3(c.Up[0], c.Up[1], c.Up[2]),
		VFov:        c.VFov,
		AspectRatio: aspect,
	}
}

// ClientMessage is a control message from the browser: "camera", "resize" or "restart"
type ClientMessage struct {
	Type   string       `json:"type"`
	Camera *CameraState `json:"camera,omitempty"`
	Width  int          `json:"width,omitempty"`
	Height int          `json:"height,omitempty"`
}

// renderState is the per-connection view of a session
type renderState struct {
	session *renderer.Session
	wake    chan struct{} // Signals the render loop after a restart

	mu      sync.Mutex
	camera  geometry.CameraConfig
	started time.Time
}

func (rs *renderState) snapshot() (geometry.CameraConfig, time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.camera, rs.started
}

// restart applies fn to the camera and restarts accumulation
func (rs *renderState) restart(fn func(camera *geometry.CameraConfig)) {
	rs.mu.Lock()
	fn(&rs.camera)
	rs.started = time.Now()
	rs.mu.Unlock()

	rs.session.Restart()
	select {
	case rs.wake <- struct{}{}:
	default:
	}
}

// handleRender streams passes over a websocket and restarts on camera moves
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}
	settings, err := s.parseSettings(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid settings: " + err.Error()})
		return
	}
	sceneObj, err := s.createScene(r.Context(), req.Scene)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan Event, 16)
	go writeEvents(ctx, conn, events)

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	go forwardConsole(ctx, consoleChan, events)

	session, err := renderer.NewSession(sceneObj, settings, req.Width, req.Height, NewWebLogger(renderID, consoleChan))
	if err != nil {
		sendEvent(ctx, events, Event{Type: "error", Data: err.Error()})
		return
	}
	defer session.Close()

	camera := sceneObj.Camera
	camera.AspectRatio = float64(req.Width) / float64(req.Height)
	rs := &renderState{
		session: session,
		wake:    make(chan struct{}, 1),
		camera:  camera,
		started: time.Now(),
	}

	sendEvent(ctx, events, Event{Type: "ready", Data: map[string]interface{}{
		"renderId": renderID,
		"scene":    sceneObj.Name,
		"camera":   cameraState(camera),
	}})

	go readMessages(ctx, cancel, conn, rs)
	renderLoop(ctx, rs, events, sceneObj)
}

// parseSettings applies query overrides to the server defaults
func (s *Server) parseSettings(values url.Values) (renderer.Settings, error) {
	settings := s.settings
	var err error
	if settings.MaxBounces, err = parseIntParam(values, "maxBounces", settings.MaxBounces, 0, 64); err != nil {
		return settings, err
	}
	if settings.MaxPathsPerPixel, err = parseIntParam(values, "maxPaths", settings.MaxPathsPerPixel, 0, 100000); err != nil {
		return settings, err
	}
	if settings.Subsampling, err = parseIntParam(values, "subsampling", settings.Subsampling, 1, 16); err != nil {
		return settings, err
	}
	return settings, settings.Validate()
}

// renderLoop traces passes until the client goes away, idling once converged
func renderLoop(ctx context.Context, rs *renderState, events chan<- Event, sceneObj *scene.Scene) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if rs.session.Converged() {
			select {
			case <-ctx.Done():
				return
			case <-rs.wake:
			}
			continue
		}

		camera, started := rs.snapshot()
		if !rs.session.TracePaths(camera.View(), camera.Projection()) {
			continue
		}

		img := rs.session.Snapshot()
		imageData, err := imageToBase64PNG(img)
		if err != nil {
			sendEvent(ctx, events, Event{Type: "error", Data: fmt.Sprintf("failed to encode image: %v", err)})
			return
		}

		stats := rs.session.Stats()
		sendEvent(ctx, events, Event{Type: "pass", Data: PassUpdate{
			PassNumber:     stats.Pass,
			ImageData:      imageData,
			Width:          img.Bounds().Dx(),
			Height:         img.Bounds().Dy(),
			PassMs:         stats.PassDuration.Milliseconds(),
			ElapsedMs:      time.Since(started).Milliseconds(),
			PathsPerSecond: stats.PathsPerSecond(),
			PrimitiveCount: sceneObj.PrimitiveCount(),
			Converged:      rs.session.Converged(),
		}})
	}
}

// readMessages applies client control messages; it cancels the render when the socket closes
func readMessages(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, rs *renderState) {
	defer cancel()
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error: %v", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch msg.Type {
		case "camera":
			if msg.Camera == nil || msg.Camera.VFov <= 0 || msg.Camera.VFov >= 180 {
				continue
			}
			rs.restart(func(camera *geometry.CameraConfig) {
				*camera = msg.Camera.config(camera.AspectRatio)
			})
		case "resize":
			if msg.Width < minSize || msg.Height < minSize || msg.Width > maxSize || msg.Height > maxSize {
				continue
			}
			rs.session.Resize(msg.Width, msg.Height)
			rs.restart(func(camera *geometry.CameraConfig) {
				camera.AspectRatio = float64(msg.Width) / float64(msg.Height)
			})
		case "restart":
			rs.restart(func(*geometry.CameraConfig) {})
		}
	}
}

// writeEvents is the only goroutine writing to the connection
func writeEvents(ctx context.Context, conn *websocket.Conn, events <-chan Event) {
	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// forwardConsole turns log lines into console events, dropping them when the client lags
func forwardConsole(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- Event) {
	for {
		select {
		case msg := <-consoleChan:
			select {
			case events <- Event{Type: "console", Data: msg}:
			case <-ctx.Done():
				return
			default:
			}
		case <-ctx.Done():
			return
		}
	}
}

func sendEvent(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

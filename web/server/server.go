package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/display"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// shutdownTimeout bounds how long Start waits for open requests when stopping
const shutdownTimeout = 5 * time.Second

// Server is an HTTP preview shell around a single progressive renderer
type Server struct {
	port      int
	sceneName string
	renderer  *renderer.Progressive
	console   *Console
	logger    log.Logger
}

// NewServer creates a new web server for an already configured renderer
func NewServer(port int, sceneName string, r *renderer.Progressive, console *Console) *Server {
	if console == nil {
		console = NewConsole(defaultConsoleLimit)
	}
	return &Server{
		port:      port,
		sceneName: sceneName,
		renderer:  r,
		console:   console,
		logger:    log.New("server"),
	}
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber int    `json:"passNumber"`
	Samples    int    `json:"samples"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG
	Stats      Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	Scene         string  `json:"scene"`
	State         string  `json:"state"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Pass          int     `json:"pass"`
	Samples       int     `json:"samples"`
	PassMs        int64   `json:"passMs"`
	TotalMs       int64   `json:"totalMs"`
	RaysTraced    int64   `json:"raysTraced"`
	RaysPerSecond float64 `json:"raysPerSecond"`
	NonFinite     int64   `json:"nonFinite"`
}

// Handler returns the HTTP routes of the preview shell
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/frame.png", s.handleFrame)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/console", s.handleConsole)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the renderer and serves HTTP until ctx is cancelled.
// The renderer is stopped before the listener shuts down so open streams can finish.
func (s *Server) Start(ctx context.Context) error {
	if err := s.renderer.Start(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Noticef("Starting web server on http://localhost:%d", s.port)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		s.renderer.Stop()
		return err
	case <-ctx.Done():
	}

	s.logger.Noticef("Shutting down web server")
	s.renderer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  s.renderer.State().String(),
	})
}

// handleFrame returns the latest published frame as a PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	img, err := s.frameImage(r.URL.Query(), s.renderer.CurrentFrame())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleStats reports statistics for the latest published frame
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats(s.renderer.CurrentFrame()))
}

// handleStream sends one SSE event per published pass until the client
// disconnects or rendering stops
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if _, err := s.frameImage(query, s.renderer.CurrentFrame()); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, ok := w.(http.Flusher); !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	s.setSSEHeaders(w)

	frames, unsubscribe := s.renderer.Subscribe()
	defer unsubscribe()

	// Catch the client up with the frame it would otherwise miss
	lastPass := 0
	if frame := s.renderer.CurrentFrame(); frame.Pass > 0 {
		if err := s.sendFrame(w, query, frame); err != nil {
			return
		}
		lastPass = frame.Pass
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			if frame.Pass <= lastPass {
				continue
			}
			if err := s.sendFrame(w, query, frame); err != nil {
				s.logger.Warningf("Dropping stream client: %v", err)
				return
			}
			lastPass = frame.Pass
		case <-s.renderer.Done():
			// A final frame may have been published just before the loop exited
			if frame := s.renderer.CurrentFrame(); frame.Pass > lastPass {
				s.sendFrame(w, query, frame)
			}
			message := "Rendering stopped"
			if err := s.renderer.Err(); err != nil && !errors.Is(err, context.Canceled) {
				message = fmt.Sprintf("Rendering stopped: %v", err)
			}
			s.sendSSEEvent(w, "complete", message)
			return
		}
	}
}

// handleScenes lists the scenes the CLI can render
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current": s.sceneName,
		"scenes":  scenes,
	})
}

// handleConsole returns the most recent renderer log messages
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Messages())
}

// frameImage applies the optional overlay and scale query parameters to a frame
func (s *Server) frameImage(query url.Values, frame *renderer.Frame) (image.Image, error) {
	scale, err := parseIntParam(query, "scale", 1, 1, display.MaxScale)
	if err != nil {
		return nil, err
	}
	overlay, err := parseBoolParam(query, "overlay", false)
	if err != nil {
		return nil, err
	}

	var img image.Image = frame.Image
	if overlay {
		img = display.Annotate(frame)
	}
	if scale > 1 {
		img = display.Scale(img, scale)
	}
	return img, nil
}

func (s *Server) stats(frame *renderer.Frame) Stats {
	config := s.renderer.Config()
	return Stats{
		Scene:         s.sceneName,
		State:         s.renderer.State().String(),
		Width:         config.Width,
		Height:        config.Height,
		Pass:          frame.Pass,
		Samples:       frame.Samples,
		PassMs:        frame.Stats.PassTime.Milliseconds(),
		TotalMs:       frame.Stats.TotalTime.Milliseconds(),
		RaysTraced:    frame.Stats.RaysTraced,
		RaysPerSecond: frame.Stats.RaysPerSecond(),
		NonFinite:     frame.Stats.NonFinite,
	}
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

// parseBoolParam parses a boolean parameter such as overlay=1 or overlay=true
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) sendFrame(w http.ResponseWriter, query url.Values, frame *renderer.Frame) error {
	img, err := s.frameImage(query, frame)
	if err != nil {
		return err
	}
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return fmt.Errorf("failed to encode image: %v", err)
	}
	return s.sendSSEUpdate(w, ProgressUpdate{
		PassNumber: frame.Pass,
		Samples:    frame.Samples,
		ImageData:  imageData,
		Stats:      s.stats(frame),
	})
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEUpdate sends a progress update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

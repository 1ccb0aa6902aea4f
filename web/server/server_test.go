package server

import (
	"bufio"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

func newTestServer(t *testing.T, maxPasses int) (*Server, *renderer.Progressive) {
	t.Helper()
	config := renderer.DefaultConfig()
	config.Width = 16
	config.Height = 16
	config.MaxDepth = 5
	config.TileSize = 8
	config.MaxPasses = maxPasses

	r, err := renderer.NewProgressive(scene.NewDiffuseScene(), config, nil)
	if err != nil {
		t.Fatalf("NewProgressive() error: %v", err)
	}
	return NewServer(0, "diffuse", r, nil), r
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		expected  int
		expectErr bool
	}{
		{"missing uses default", "", 1, false},
		{"valid", "scale=4", 4, false},
		{"lower bound", "scale=1", 1, false},
		{"upper bound", "scale=16", 16, false},
		{"too large", "scale=17", 0, true},
		{"zero", "scale=0", 0, true},
		{"not a number", "scale=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := parseIntParam(req.URL.Query(), "scale", 1, 1, 16)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, 1)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" || body["state"] != "idle" {
		t.Errorf("Unexpected health response: %v", body)
	}
}

func TestHandleFrame(t *testing.T) {
	s, r := newTestServer(t, 0)
	if _, err := r.RenderPass(context.Background()); err != nil {
		t.Fatalf("RenderPass() error: %v", err)
	}

	tests := []struct {
		name         string
		query        string
		expectedCode int
		expectedSize int
	}{
		{"plain", "", http.StatusOK, 16},
		{"overlay", "?overlay=1", http.StatusOK, 16},
		{"scaled", "?scale=3", http.StatusOK, 48},
		{"bad scale", "?scale=99", http.StatusBadRequest, 0},
		{"bad overlay", "?overlay=maybe", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame.png"+tt.query, nil))

			if rec.Code != tt.expectedCode {
				t.Fatalf("Expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("Response is not a PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.expectedSize || img.Bounds().Dy() != tt.expectedSize {
				t.Errorf("Expected %dx%d image, got %v", tt.expectedSize, tt.expectedSize, img.Bounds())
			}
		})
	}
}

func TestHandleStats(t *testing.T) {
	s, r := newTestServer(t, 0)
	for i := 0; i < 2; i++ {
		if _, err := r.RenderPass(context.Background()); err != nil {
			t.Fatalf("RenderPass() error: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var stats Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Scene != "diffuse" {
		t.Errorf("Expected scene 'diffuse', got '%s'", stats.Scene)
	}
	if stats.Pass != 2 || stats.Samples != 2 {
		t.Errorf("Expected pass 2 with 2 samples, got pass %d with %d samples", stats.Pass, stats.Samples)
	}
	if stats.RaysTraced != 2*16*16 {
		t.Errorf("Expected %d rays, got %d", 2*16*16, stats.RaysTraced)
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t, 1)

	t.Run("center pixel hits the sphere", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?x=8&y=8", nil))

		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Hit {
			t.Fatal("Expected a hit")
		}
		if response.MaterialType != "lambertian" || response.GeometryType != "sphere" {
			t.Errorf("Expected lambertian sphere, got %s %s", response.MaterialType, response.GeometryType)
		}
		if response.Distance < 0.5 || response.Distance > 0.6 {
			t.Errorf("Expected distance near 0.5, got %f", response.Distance)
		}
		if !response.FrontFace {
			t.Error("Expected a front face hit")
		}
	})

	t.Run("top row sees sky", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?x=8&y=0", nil))

		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Hit {
			t.Errorf("Expected a miss, got %+v", response)
		}
	})

	for _, query := range []string{"x=8", "x=16&y=0", "x=-1&y=0", "x=a&y=0"} {
		t.Run("bad request "+query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?"+query, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleStream(t *testing.T) {
	s, r := newTestServer(t, 2)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer r.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}

	// Passes may be coalesced, but the last one must arrive before completion
	lastPass := 0
	completed := false
	event := ""
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && event == "progress":
			var update ProgressUpdate
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update); err != nil {
				t.Fatalf("Bad progress payload: %v", err)
			}
			if update.PassNumber <= lastPass {
				t.Errorf("Pass numbers must increase, got %d after %d", update.PassNumber, lastPass)
			}
			if update.ImageData == "" {
				t.Error("Expected image data in progress update")
			}
			lastPass = update.PassNumber
		case strings.HasPrefix(line, "data: ") && event == "complete":
			completed = true
		}
		if completed {
			break
		}
	}

	if !completed {
		t.Fatal("Stream ended without a complete event")
	}
	if lastPass != 2 {
		t.Errorf("Expected final pass 2, got %d", lastPass)
	}
}

func TestHandleConsole(t *testing.T) {
	s, _ := newTestServer(t, 1)
	s.console.Add("info", "hello")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/console", nil))

	var messages []ConsoleMessage
	if err := json.NewDecoder(rec.Body).Decode(&messages); err != nil {
		t.Fatalf("Failed to decode console: %v", err)
	}
	if len(messages) != 1 || messages[0].Message != "hello" {
		t.Errorf("Unexpected console messages: %v", messages)
	}
}

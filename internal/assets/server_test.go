package assets

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sfx", "ui"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sfx", "ui", "pop.mp3"), []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(root, logger)
}

func TestServeAssetFull(t *testing.T) {
	srv := testServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/sfx/ui/pop.mp3", nil)

	if err := srv.ServeAsset(rr, req, "sfx/ui/pop.mp3"); err != nil {
		t.Fatalf("ServeAsset() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Body.String(); got != "0123456789" {
		t.Errorf("body = %q", got)
	}
	if got := rr.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("Content-Type = %q, want audio/mpeg", got)
	}
}

func TestServeAssetRange(t *testing.T) {
	srv := testServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/sfx/ui/pop.mp3", nil)
	req.Header.Set("Range", "bytes=2-5")

	if err := srv.ServeAsset(rr, req, "sfx/ui/pop.mp3"); err != nil {
		t.Fatalf("ServeAsset() error = %v", err)
	}
	if rr.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusPartialContent)
	}
	if got := rr.Body.String(); got != "2345" {
		t.Errorf("body = %q, want 2345", got)
	}
	if got := rr.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", got)
	}
}

func TestServeAssetPrefixedPath(t *testing.T) {
	srv := testServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/sfx/ui/pop.mp3", nil)

	if err := srv.ServeAsset(rr, req, "assets/sfx/ui/pop.mp3"); err != nil {
		t.Fatalf("ServeAsset() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestServeAssetTraversalRejected(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"../secret.txt", "sfx/../../etc/passwd", ""} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/assets/x", nil)
		if err := srv.ServeAsset(rr, req, path); err != nil {
			t.Fatalf("ServeAsset(%q) error = %v", path, err)
		}
		if rr.Code != http.StatusBadRequest {
			t.Errorf("ServeAsset(%q) status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestServeAssetMissing(t *testing.T) {
	srv := testServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/sfx/nope.mp3", nil)

	if err := srv.ServeAsset(rr, req, "sfx/nope.mp3"); err != nil {
		t.Fatalf("ServeAsset() error = %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestServeAssetUnsatisfiableRange(t *testing.T) {
	srv := testServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/sfx/ui/pop.mp3", nil)
	req.Header.Set("Range", "bytes=100-")

	if err := srv.ServeAsset(rr, req, "sfx/ui/pop.mp3"); err != nil {
		t.Fatalf("ServeAsset() error = %v", err)
	}
	if rr.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusRequestedRangeNotSatisfiable)
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rohits-web03/smartstore/internal/config"
	"github.com/rohits-web03/smartstore/internal/models"
	"github.com/rohits-web03/smartstore/internal/repositories"
	"github.com/rohits-web03/smartstore/internal/services"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	local, err := repositories.NewLocalStorage(t.TempDir(), repositories.CollisionOverwrite)
	if err != nil {
		t.Fatal(err)
	}
	files, err := services.NewFileService(local, repositories.NewMemoryFileRepository(), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		MaxUploadBytes: 1 << 20,
		DownloadURLTTL: time.Minute,
		CorsConfig:     config.CorsConfig([]string{"http://localhost:5173"}),
	}
	return SetupRouter(cfg, files)
}

func TestRouter_Health(t *testing.T) {
	h := newRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouter_UploadThenList(t *testing.T) {
	h := newRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("hello"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list: %d", rr.Code)
	}
	var payload struct {
		Data []models.FileRecord `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Filename != "hello.txt" || *payload.Data[0].SizeBytes != 5 {
		t.Errorf("list: %+v", payload.Data)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files/upload", nil))

	// GET on the upload path falls through to the {id} route.
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/files", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status: %d", rr.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newRouter(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `smartstore_http_requests_total{method="GET",path="GET /health",status="200"}`) {
		t.Error("request counter for /health not exported")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/files/upload", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin: %q", got)
	}
}

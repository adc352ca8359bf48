package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

func newPagesRouter(t *testing.T) (*gin.Engine, storage.Store, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	root := t.TempDir()
	assets, err := storage.New(root, log)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	r := gin.New()
	r.GET("/pages", NewPagesHandler(assets, log).ListPages)
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	return r, assets, root
}

func publish(t *testing.T, assets storage.Store, name string) {
	t.Helper()
	if err := assets.SaveImage(name, []byte("jpg")); err != nil {
		t.Fatalf("save image: %v", err)
	}
	if err := assets.SaveAudio(name, []byte("mp3")); err != nil {
		t.Fatalf("save audio: %v", err)
	}
	if err := assets.SetVisibility(name, true); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
}

func TestListPages_Empty(t *testing.T) {
	r, _, _ := newPagesRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pages", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body struct {
		Folders []string `json:"folders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Folders == nil {
		t.Fatalf("folders must be an empty array, got body %s", w.Body.String())
	}
	if len(body.Folders) != 0 {
		t.Fatalf("got %v", body.Folders)
	}
}

func TestListPages_OnlyPublishedNewestFirst(t *testing.T) {
	r, assets, root := newPagesRouter(t)

	publish(t, assets, "old")
	publish(t, assets, "new")
	publish(t, assets, "hidden")
	if err := assets.SetVisibility("hidden", false); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	if err := assets.SaveImage("partial", []byte("jpg")); err != nil {
		t.Fatalf("save image: %v", err)
	}

	earlier := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old"), earlier, earlier); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pages", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Folders []string `json:"folders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Folders) != 2 || body.Folders[0] != "new" || body.Folders[1] != "old" {
		t.Fatalf("got %v", body.Folders)
	}
}

func TestHealthCheck(t *testing.T) {
	r, _, _ := newPagesRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body %q", w.Body.String())
	}
}

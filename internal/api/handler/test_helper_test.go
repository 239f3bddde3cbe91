package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ewout/snapvault/internal/api/dto"
	"github.com/ewout/snapvault/internal/core/service"
	"github.com/ewout/snapvault/internal/infrastructure/snapshotfs"
	"github.com/ewout/snapvault/internal/infrastructure/sqlite"
)

// testEnv holds all test dependencies
type testEnv struct {
	db       *sqlite.DB
	router   *gin.Engine
	store    *snapshotfs.Store
	service  *service.BackupService
	dataFile string
}

// setupTestEnv creates a test environment with a temp snapshot directory,
// a real source file and an in-memory SQLite state database.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dataFile := filepath.Join(t.TempDir(), "app.db")
	if err := os.WriteFile(dataFile, []byte("primary data file contents"), 0o644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := snapshotfs.New(filepath.Join(t.TempDir(), "backups"), zerolog.Nop())
	eventRepo := sqlite.NewEventRepository(db)
	backupService := service.NewBackupService(store, eventRepo, dataFile, 7*24*time.Hour, zerolog.Nop())

	backupHandler := NewBackupHandler(backupService)
	eventHandler := NewEventHandler(eventRepo)

	// Setup gin router in test mode; routes registered without auth middleware
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/backups", backupHandler.ListBackups)
	router.POST("/backups", backupHandler.CreateBackup)
	router.GET("/backups/:name", backupHandler.DownloadBackup)
	router.DELETE("/backups", backupHandler.DeleteBackup)
	router.GET("/events", eventHandler.ListEvents)

	return &testEnv{
		db:       db,
		router:   router,
		store:    store,
		service:  backupService,
		dataFile: dataFile,
	}
}

func (env *testEnv) makeRequest(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

func parseSnapshotList(t *testing.T, w *httptest.ResponseRecorder) []dto.SnapshotResponse {
	t.Helper()

	var resp []dto.SnapshotResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse snapshot list: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

func parseCreateResponse(t *testing.T, w *httptest.ResponseRecorder) dto.CreateBackupResponse {
	t.Helper()

	var resp dto.CreateBackupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse create response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

package system

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/logofolio/service/internal/config"
	"github.com/logofolio/service/internal/response"
)

type fakeStorage struct {
	created   bool
	ensureErr error
}

func (f *fakeStorage) EnsureBucket(ctx context.Context) (bool, error) {
	return f.created, f.ensureErr
}

func (f *fakeStorage) Upload(ctx context.Context, subPath, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", nil
}

func (f *fakeStorage) DeleteByURL(ctx context.Context, url string) error { return nil }

func (f *fakeStorage) PublicURL(key string) string { return key }

type fakeRow struct {
	n   int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.n
	return nil
}

type fakeDB struct {
	pingErr  error
	countRow fakeRow
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.countRow
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:      "postgres://read@localhost/gallery",
		DatabaseAdminURL: "postgres://admin@localhost/gallery",
		JWTSecret:        "a-real-secret",
		StorageEndpoint:  "localhost:9000",
		StorageAccessKey: "key",
		StorageSecretKey: "secret",
		StorageBucket:    "logos",
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestInitStorage(t *testing.T) {
	h := NewHandler(&fakeStorage{created: true}, &fakeDB{}, testConfig())

	rec := httptest.NewRecorder()
	h.InitStorage(rec, httptest.NewRequest(http.MethodPost, "/system/storage/init", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decode(t, rec)
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}
	data := env.Data.(map[string]interface{})
	if data["bucket"] != "logos" || data["created"] != true {
		t.Errorf("data = %+v, want bucket logos created true", data)
	}
}

func TestInitStorage_RemoteFailure(t *testing.T) {
	h := NewHandler(&fakeStorage{ensureErr: errors.New("remote: forbidden")}, &fakeDB{}, testConfig())

	rec := httptest.NewRecorder()
	h.InitStorage(rec, httptest.NewRequest(http.MethodPost, "/system/storage/init", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decode(t, rec)
	if env.Success || env.Details == "" {
		t.Errorf("envelope = %+v, want failure with details", env)
	}
}

func TestCheckConfig(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "change_me_in_production"
	h := NewHandler(&fakeStorage{}, &fakeDB{}, cfg)

	rec := httptest.NewRecorder()
	h.CheckConfig(rec, httptest.NewRequest(http.MethodGet, "/system/config", nil))

	env := decode(t, rec)
	data := env.Data.(map[string]interface{})
	if data["storage_configured"] != true {
		t.Error("storage_configured = false")
	}
	if data["jwt_secret_configured"] != false {
		t.Error("default JWT secret reported as configured")
	}
}

func TestCheckDB(t *testing.T) {
	h := NewHandler(&fakeStorage{}, &fakeDB{countRow: fakeRow{n: 42}}, testConfig())

	rec := httptest.NewRecorder()
	h.CheckDB(rec, httptest.NewRequest(http.MethodGet, "/system/db", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decode(t, rec)
	data := env.Data.(map[string]interface{})
	if data["logos"] != float64(42) {
		t.Errorf("logos = %v, want 42", data["logos"])
	}
}

func TestCheckDB_Unreachable(t *testing.T) {
	h := NewHandler(&fakeStorage{}, &fakeDB{pingErr: errors.New("dial tcp: refused")}, testConfig())

	rec := httptest.NewRecorder()
	h.CheckDB(rec, httptest.NewRequest(http.MethodGet, "/system/db", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

package logo

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/logofolio/service/internal/response"
)

func newTestRouter(repo *fakeRepo, store *fakeStore) chi.Router {
	h := NewHandler(newService(repo, store))

	r := chi.NewRouter()
	r.Get("/logos", h.List)
	r.Get("/logos/search", h.Search)
	r.Get("/logos/{id}", h.Get)
	r.Post("/logos", h.Create)
	r.Patch("/logos/{id}", h.Update)
	r.Delete("/logos/{id}", h.Delete)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, "logo."+name)
		if err != nil {
			t.Fatalf("create file part %s: %v", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file part %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestHandlerCreate(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	router := newTestRouter(repo, store)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Acme", "category": "Technology"},
		map[string][]byte{"png": []byte("png bytes"), "svg": []byte("<svg/>")},
	)

	req := httptest.NewRequest(http.MethodPost, "/logos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	if store.uploadCalls != 2 || repo.insertCalls != 1 {
		t.Errorf("uploads = %d inserts = %d, want 2 and 1", store.uploadCalls, repo.insertCalls)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}
}

func TestHandlerCreate_MissingFilesIs400(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	router := newTestRouter(repo, store)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Acme", "category": "Technology"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/logos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if store.uploadCalls != 0 || repo.insertCalls != 0 {
		t.Error("remote calls made for invalid input")
	}
}

func TestHandlerSearch_BadFormat(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/logos/search?q=goo&format=gif", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.listCalls != 0 {
		t.Error("search executed despite invalid format")
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	repo := &fakeRepo{getErr: ErrNotFound}
	router := newTestRouter(repo, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/logos/00000000-0000-0000-0000-000000000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerList(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/logos?order=newest&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if repo.listCalls != 1 {
		t.Errorf("list calls = %d, want 1", repo.listCalls)
	}
}

func TestHandlerUpdate_MetadataOnly(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	router := newTestRouter(repo, store)

	body, contentType := multipartBody(t, map[string]string{"category": "Finance"}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/logos/some-id", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if store.uploadCalls != 0 || store.deleteCalls != 0 {
		t.Error("storage invoked for metadata-only update")
	}
	if repo.lastUpdate.Category == nil || *repo.lastUpdate.Category != "Finance" {
		t.Errorf("update fields = %+v, want category Finance", repo.lastUpdate)
	}
	if repo.lastUpdate.Name != nil || repo.lastUpdate.Description != nil {
		t.Errorf("absent form fields leaked into update: %+v", repo.lastUpdate)
	}
}

func TestHandlerUpdate_ResponseReportsCleanup(t *testing.T) {
	oldURL := "https://cdn.test/logos/png/old.png"
	repo := &fakeRepo{getResult: &Logo{ID: "some-id", Name: "Acme", Category: "Technology", PNGURL: &oldURL}}
	store := &fakeStore{deleteErr: errors.New("remote: access denied")}
	router := newTestRouter(repo, store)

	body, contentType := multipartBody(t, nil, map[string][]byte{"png": []byte("png bytes")})

	req := httptest.NewRequest(http.MethodPatch, "/logos/some-id", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var env struct {
		Success bool       `json:"success"`
		Data    updateData `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Logo == nil {
		t.Fatal("updated logo missing from response")
	}
	if env.Data.Cleanup.PNGCleaned {
		t.Error("response claims old png cleaned, but storage delete failed")
	}
}

func TestHandlerDelete(t *testing.T) {
	png := "https://cdn.test/logos/png/a.png"
	repo := &fakeRepo{getResult: &Logo{ID: "some-id", PNGURL: &png}}
	router := newTestRouter(repo, &fakeStore{})

	req := httptest.NewRequest(http.MethodDelete, "/logos/some-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var env struct {
		Success bool          `json:"success"`
		Data    DeleteOutcome `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Data.RecordDeleted || !env.Data.PNGDeleted {
		t.Errorf("outcome = %+v, want record and png deleted", env.Data)
	}
}

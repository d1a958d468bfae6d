package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/logofolio/service/internal/middleware"
)

type fakeService struct {
	getCalls    int
	updateCalls int

	getResult *Profile
	getErr    error
	updateErr error

	lastDisplayName *string
}

func (f *fakeService) GetByID(ctx context.Context, id string) (*Profile, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.getResult
	return &copied, nil
}

func (f *fakeService) Update(ctx context.Context, id string, displayName *string) (*Profile, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastDisplayName = displayName
	return &Profile{ID: id, Email: "admin@example.com", DisplayName: displayName, UpdatedAt: time.Now()}, nil
}

func (f *fakeService) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "7d0f2a9e-0000-0000-0000-000000000001")
	return req.WithContext(ctx)
}

func TestGetMe(t *testing.T) {
	name := "Admin"
	svc := &fakeService{getResult: &Profile{
		ID:          "7d0f2a9e-0000-0000-0000-000000000001",
		Email:       "admin@example.com",
		DisplayName: &name,
	}}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.GetMe(rec, authedRequest(http.MethodGet, "/profiles/me", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if svc.getCalls != 1 {
		t.Errorf("get calls = %d, want 1", svc.getCalls)
	}

	var env struct {
		Success bool    `json:"success"`
		Data    Profile `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Email != "admin@example.com" {
		t.Errorf("email = %q, want admin@example.com", env.Data.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password hash leaked into response")
	}
}

func TestGetMe_MissingClaims(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/profiles/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if svc.getCalls != 0 {
		t.Error("service queried without authenticated operator")
	}
}

func TestGetMe_UnknownOperator(t *testing.T) {
	svc := &fakeService{getErr: ErrNotFound}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.GetMe(rec, authedRequest(http.MethodGet, "/profiles/me", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateMe(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, authedRequest(http.MethodPatch, "/profiles/me", `{"displayName":"New Name"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if svc.updateCalls != 1 {
		t.Errorf("update calls = %d, want 1", svc.updateCalls)
	}
	if svc.lastDisplayName == nil || *svc.lastDisplayName != "New Name" {
		t.Errorf("display name = %v, want New Name", svc.lastDisplayName)
	}
}

func TestUpdateMe_BlankDisplayName(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, authedRequest(http.MethodPatch, "/profiles/me", `{"displayName":"   "}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.updateCalls != 0 {
		t.Error("update attempted for blank display name")
	}
}

func TestUpdateMe_UnknownOperator(t *testing.T) {
	svc := &fakeService{updateErr: ErrNotFound}
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, authedRequest(http.MethodPatch, "/profiles/me", `{"displayName":"New Name"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

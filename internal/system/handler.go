// Package system exposes operational diagnostics endpoints: storage
// bootstrap, configuration presence checks, and database health.
package system

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logofolio/service/internal/config"
	"github.com/logofolio/service/internal/response"
	"github.com/logofolio/service/internal/storage"
)

// database is the slice of pgxpool.Pool the diagnostics need.
type database interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ database = (*pgxpool.Pool)(nil)

// Handler holds HTTP handlers for diagnostics endpoints.
type Handler struct {
	store storage.Storage
	db    database
	cfg   *config.Config
}

// NewHandler creates a new system Handler. db must be the service-role
// pool so the table probe is not subject to row-level policies.
func NewHandler(store storage.Storage, db database, cfg *config.Config) *Handler {
	return &Handler{store: store, db: db, cfg: cfg}
}

type storageInitData struct {
	Bucket  string `json:"bucket"`
	Created bool   `json:"created"`
}

// InitStorage godoc
//
//	@Summary		Bootstrap storage
//	@Description	Ensure the logo bucket exists with a public-read policy, creating it when absent.
//	@Tags			system
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=storageInitData}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/system/storage/init [post]
func (h *Handler) InitStorage(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.EnsureBucket(r.Context())
	if err != nil {
		response.ErrorDetails(w, http.StatusInternalServerError, "failed to ensure storage bucket", err.Error())
		return
	}

	response.OK(w, storageInitData{Bucket: h.cfg.StorageBucket, Created: created})
}

type configCheckData struct {
	DatabaseConfigured      bool `json:"database_configured"`
	AdminDatabaseConfigured bool `json:"admin_database_configured"`
	StorageConfigured       bool `json:"storage_configured"`
	JWTSecretConfigured     bool `json:"jwt_secret_configured"`
}

// CheckConfig godoc
//
//	@Summary		Check configuration
//	@Description	Report which required configuration values are present. Never echoes secret values.
//	@Tags			system
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=configCheckData}
//	@Failure		401	{object}	response.Envelope
//	@Router			/system/config [get]
func (h *Handler) CheckConfig(w http.ResponseWriter, r *http.Request) {
	response.OK(w, configCheckData{
		DatabaseConfigured:      h.cfg.DatabaseURL != "",
		AdminDatabaseConfigured: h.cfg.DatabaseAdminURL != "",
		StorageConfigured:       h.cfg.StorageEndpoint != "" && h.cfg.StorageAccessKey != "" && h.cfg.StorageSecretKey != "",
		JWTSecretConfigured:     h.cfg.JWTSecret != "" && h.cfg.JWTSecret != "change_me_in_production",
	})
}

type dbCheckData struct {
	Status string `json:"status"`
	Logos  int64  `json:"logos"`
}

// CheckDB godoc
//
//	@Summary		Check database
//	@Description	Ping the database and count catalog records.
//	@Tags			system
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=dbCheckData}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/system/db [get]
func (h *Handler) CheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		response.ErrorDetails(w, http.StatusInternalServerError, "database unreachable", err.Error())
		return
	}

	var count int64
	if err := h.db.QueryRow(r.Context(), "SELECT count(*) FROM logos").Scan(&count); err != nil {
		response.ErrorDetails(w, http.StatusInternalServerError, "logos table not readable", err.Error())
		return
	}

	response.OK(w, dbCheckData{Status: "ok", Logos: count})
}

package logo

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/logofolio/service/internal/middleware"
	"github.com/logofolio/service/internal/response"
	"github.com/logofolio/service/internal/storage"
)

// maxMultipartMemory bounds how much of a multipart body is held in
// memory before spilling to temp files.
const maxMultipartMemory = 32 << 20

// service is the catalog behavior the handlers need; *Service satisfies it.
type service interface {
	List(ctx context.Context, order Order, page Page) ([]Logo, error)
	ListByCategory(ctx context.Context, category string, page Page) ([]Logo, error)
	GetByID(ctx context.Context, id string) (*Logo, error)
	Search(ctx context.Context, query, format string, page Page) ([]Logo, error)
	CreateLogo(ctx context.Context, in CreateInput, png, svg *FileUpload) (*Logo, error)
	UpdateLogo(ctx context.Context, id string, fields UpdateFields, png, svg *FileUpload) (*Logo, UpdateOutcome, error)
	DeleteLogo(ctx context.Context, id string) (DeleteOutcome, error)
}

var _ service = (*Service)(nil)

// Handler holds HTTP handlers for catalog endpoints.
type Handler struct {
	svc service
}

// NewHandler creates a new logo Handler.
func NewHandler(svc service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary		List logos
//	@Description	List catalog entries, optionally filtered to one category. Without limit the full catalog is returned.
//	@Tags			logos
//	@Produce		json
//	@Param			category	query		string	false	"Category filter"
//	@Param			order		query		string	false	"Sort order: name, newest, oldest"
//	@Param			limit		query		int		false	"Page size (full scan when absent)"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	response.Envelope{data=[]Logo}
//	@Failure		400			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/logos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := PageFromQuery(q)

	var (
		logos []Logo
		err   error
	)
	if category := q.Get("category"); category != "" {
		logos, err = h.svc.ListByCategory(r.Context(), category, page)
	} else {
		logos, err = h.svc.List(r.Context(), ParseOrder(q.Get("order")), page)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.OK(w, logos)
}

// Search godoc
//
//	@Summary		Search logos
//	@Description	Case-insensitive name-substring search, optionally narrowed to entries carrying a png or svg file.
//	@Tags			logos
//	@Produce		json
//	@Param			q		query		string	true	"Name substring"
//	@Param			format	query		string	false	"Require file presence: png or svg"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	response.Envelope{data=[]Logo}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/logos/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format != "" && format != "png" && format != "svg" {
		response.BadRequest(w, "format must be png or svg")
		return
	}

	logos, err := h.svc.Search(r.Context(), q.Get("q"), format, PageFromQuery(q))
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.OK(w, logos)
}

// Get godoc
//
//	@Summary		Get logo
//	@Description	Fetch a single catalog entry by id.
//	@Tags			logos
//	@Produce		json
//	@Param			id	path		string	true	"Logo ID"
//	@Success		200	{object}	response.Envelope{data=Logo}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/logos/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	response.OK(w, l)
}

// Create godoc
//
//	@Summary		Create logo
//	@Description	Upload a new logo: multipart form with name, category, optional description, and at least one of png/svg file parts.
//	@Tags			logos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name		formData	string	true	"Display name"
//	@Param			category	formData	string	true	"Category"
//	@Param			description	formData	string	false	"Description"
//	@Param			png			formData	file	false	"PNG file"
//	@Param			svg			formData	file	false	"SVG file"
//	@Success		201			{object}	response.Envelope{data=Logo}
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/logos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	in := CreateInput{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
	}
	if d := r.FormValue("description"); d != "" {
		in.Description = &d
	}
	if userID, ok := r.Context().Value(middleware.UserIDKey).(string); ok && userID != "" {
		in.UserID = &userID
	}

	png, closePNG, err := formFile(r, "png", "image/png")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closePNG()

	svg, closeSVG, err := formFile(r, "svg", "image/svg+xml")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closeSVG()

	created, err := h.svc.CreateLogo(r.Context(), in, png, svg)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Created(w, created)
}

// Update godoc
//
//	@Summary		Update logo
//	@Description	Partial update: only form fields present are changed; new png/svg parts replace the stored files (stale objects deleted best-effort).
//	@Tags			logos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string	true	"Logo ID"
//	@Param			name		formData	string	false	"Display name"
//	@Param			category	formData	string	false	"Category"
//	@Param			description	formData	string	false	"Description"
//	@Param			png			formData	file	false	"Replacement PNG file"
//	@Param			svg			formData	file	false	"Replacement SVG file"
//	@Success		200			{object}	response.Envelope{data=updateData}
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/logos/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	var fields UpdateFields
	if v, ok := formValue(r.MultipartForm, "name"); ok {
		fields.Name = &v
	}
	if v, ok := formValue(r.MultipartForm, "category"); ok {
		fields.Category = &v
	}
	if v, ok := formValue(r.MultipartForm, "description"); ok {
		fields.Description = &v
	}

	png, closePNG, err := formFile(r, "png", "image/png")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closePNG()

	svg, closeSVG, err := formFile(r, "svg", "image/svg+xml")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closeSVG()

	updated, cleanup, err := h.svc.UpdateLogo(r.Context(), chi.URLParam(r, "id"), fields, png, svg)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.OK(w, updateData{Logo: updated, Cleanup: cleanup})
}

// updateData pairs the updated record with the stale-file cleanup
// outcome so admin clients can see an orphaned old object.
type updateData struct {
	Logo    *Logo         `json:"logo"`
	Cleanup UpdateOutcome `json:"cleanup"`
}

// Delete godoc
//
//	@Summary		Delete logo
//	@Description	Delete a catalog entry and its stored files. File removal is best-effort; the outcome reports what was actually deleted.
//	@Tags			logos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Logo ID"
//	@Success		200	{object}	response.Envelope{data=DeleteOutcome}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/logos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.svc.DeleteLogo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	response.OK(w, outcome)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var uploadErr *storage.UploadError
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "logo not found")
	case errors.As(err, &uploadErr):
		response.ErrorDetails(w, http.StatusBadGateway, "file upload failed", uploadErr.Err.Error())
	default:
		log.Printf("logo: handler error: %v", err)
		response.InternalError(w)
	}
}

// formFile extracts an optional file part. The returned close func is
// always safe to call.
func formFile(r *http.Request, field, defaultContentType string) (*FileUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, errors.New("invalid " + field + " file part")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return &FileUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      file,
	}, func() { _ = file.Close() }, nil
}

// formValue reports a form field only when the part was actually sent,
// so an absent field and an empty field are distinguishable.
func formValue(form *multipart.Form, field string) (string, bool) {
	if form == nil {
		return "", false
	}
	vs, ok := form.Value[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

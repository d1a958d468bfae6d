package logo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/logofolio/service/internal/storage"
)

// repository is the catalog access the service needs; *Repository
// satisfies it. Tests substitute call-counting fakes.
type repository interface {
	ListAll(ctx context.Context, order Order, page Page) ([]Logo, error)
	ListByCategory(ctx context.Context, category string, page Page) ([]Logo, error)
	GetByID(ctx context.Context, id string) (*Logo, error)
	SearchByName(ctx context.Context, query string, page Page) ([]Logo, error)
	Search(ctx context.Context, query, format string, page Page) ([]Logo, error)
	Insert(ctx context.Context, l *Logo) (*Logo, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Logo, error)
	Delete(ctx context.Context, id string) error
}

var _ repository = (*Repository)(nil)

// FileUpload is one incoming logo asset.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateInput is the metadata for a new catalog entry.
type CreateInput struct {
	Name        string
	Category    string
	Description *string
	UserID      *string
}

// DeleteOutcome records which pieces of a logo a delete actually
// removed. File deletions are best-effort, so a true RecordDeleted with
// a false PNGDeleted means an orphaned object was left in storage.
type DeleteOutcome struct {
	RecordDeleted bool `json:"record_deleted"`
	PNGDeleted    bool `json:"png_deleted"`
	SVGDeleted    bool `json:"svg_deleted"`
}

// UpdateOutcome records whether the stale files displaced by an update
// were actually removed from storage. A replaced file with a false
// flag means the old object is orphaned.
type UpdateOutcome struct {
	PNGCleaned bool `json:"png_cleaned"`
	SVGCleaned bool `json:"svg_cleaned"`
}

// Service sequences storage uploads and catalog writes into single
// add/update/delete actions. Reads run on the anonymous-tier repository,
// mutations on the service-role tier.
type Service struct {
	reads  repository
	writes repository
	store  storage.Storage
}

// NewService creates a logo Service over the two repository tiers and
// the object store.
func NewService(reads, writes repository, store storage.Storage) *Service {
	return &Service{reads: reads, writes: writes, store: store}
}

// List returns catalog entries in the given order.
func (s *Service) List(ctx context.Context, order Order, page Page) ([]Logo, error) {
	return s.reads.ListAll(ctx, order, page)
}

// ListByCategory returns catalog entries in one category.
func (s *Service) ListByCategory(ctx context.Context, category string, page Page) ([]Logo, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return s.reads.ListByCategory(ctx, category, page)
}

// GetByID returns a single catalog entry.
func (s *Service) GetByID(ctx context.Context, id string) (*Logo, error) {
	return s.reads.GetByID(ctx, id)
}

// Search returns entries whose name contains the substring, optionally
// narrowed to those carrying a file of the given format.
func (s *Service) Search(ctx context.Context, query, format string, page Page) ([]Logo, error) {
	if format == "" {
		return s.reads.SearchByName(ctx, query, page)
	}
	return s.reads.Search(ctx, query, format, page)
}

// CreateLogo validates the input, uploads each present file, and inserts
// the catalog record with the resulting URLs. Validation failures abort
// before any remote call. An upload failure aborts the whole operation
// with no catalog write; a file uploaded before the failing one is not
// rolled back and stays orphaned in storage.
func (s *Service) CreateLogo(ctx context.Context, in CreateInput, png, svg *FileUpload) (*Logo, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if !ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if png == nil && svg == nil {
		return nil, fmt.Errorf("%w: at least one of png or svg file is required", ErrValidation)
	}

	l := &Logo{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		UserID:      in.UserID,
	}

	if png != nil {
		url, err := s.upload(ctx, "png", png)
		if err != nil {
			return nil, err
		}
		l.PNGURL = &url
	}
	if svg != nil {
		url, err := s.upload(ctx, "svg", svg)
		if err != nil {
			return nil, err
		}
		l.SVGURL = &url
	}

	created, err := s.writes.Insert(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("insert logo: %w", err)
	}
	return created, nil
}

// UpdateLogo applies a partial update, optionally replacing files. For
// each replacement the old object is deleted best-effort first, then
// the new file is uploaded and its URL merged into the update. A failed
// cleanup never blocks the update; the outcome records which stale
// files were actually removed so callers can observe the orphan.
func (s *Service) UpdateLogo(ctx context.Context, id string, fields UpdateFields, png, svg *FileUpload) (*Logo, UpdateOutcome, error) {
	var out UpdateOutcome

	if fields.Category != nil && !ValidCategory(*fields.Category) {
		return nil, out, fmt.Errorf("%w: unknown category %q", ErrValidation, *fields.Category)
	}

	if png != nil || svg != nil {
		existing, err := s.writes.GetByID(ctx, id)
		if err != nil {
			return nil, out, err
		}

		if png != nil {
			out.PNGCleaned = s.cleanup(ctx, id, "png", existing.PNGURL)
			url, err := s.upload(ctx, "png", png)
			if err != nil {
				return nil, out, err
			}
			fields.PNGURL = &url
		}
		if svg != nil {
			out.SVGCleaned = s.cleanup(ctx, id, "svg", existing.SVGURL)
			url, err := s.upload(ctx, "svg", svg)
			if err != nil {
				return nil, out, err
			}
			fields.SVGURL = &url
		}
	}

	updated, err := s.writes.Update(ctx, id, fields)
	if err != nil {
		return nil, out, err
	}
	return updated, out, nil
}

// DeleteLogo removes a logo's files best-effort, then its catalog
// record. A missing id is treated as already deleted. The outcome
// reports exactly what was removed so callers can observe orphaned
// files instead of losing them to a log line.
func (s *Service) DeleteLogo(ctx context.Context, id string) (DeleteOutcome, error) {
	var out DeleteOutcome

	existing, err := s.writes.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load logo %s: %w", id, err)
	}

	if existing.PNGURL != nil {
		if err := s.store.DeleteByURL(ctx, *existing.PNGURL); err != nil {
			log.Printf("logo: delete png for %s: %v", id, err)
		} else {
			out.PNGDeleted = true
		}
	}
	if existing.SVGURL != nil {
		if err := s.store.DeleteByURL(ctx, *existing.SVGURL); err != nil {
			log.Printf("logo: delete svg for %s: %v", id, err)
		} else {
			out.SVGDeleted = true
		}
	}

	if err := s.writes.Delete(ctx, id); err != nil {
		return out, fmt.Errorf("delete logo %s: %w", id, err)
	}
	out.RecordDeleted = true
	return out, nil
}

func (s *Service) upload(ctx context.Context, subPath string, f *FileUpload) (string, error) {
	url, err := s.store.Upload(ctx, subPath, f.Filename, f.Reader, f.Size, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s file: %w", subPath, err)
	}
	return url, nil
}

// cleanup removes a displaced object and reports whether it is gone. A
// nil url means there was nothing to clean, which also counts as clean.
func (s *Service) cleanup(ctx context.Context, id, kind string, url *string) bool {
	if url == nil {
		return true
	}
	if err := s.store.DeleteByURL(ctx, *url); err != nil {
		log.Printf("logo: stale %s cleanup for %s: %v", kind, id, err)
		return false
	}
	return true
}

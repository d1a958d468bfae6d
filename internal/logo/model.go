// Package logo implements the logo catalog: the record model, Postgres
// repository, and the service that sequences file uploads with catalog
// writes.
package logo

import "time"

// Logo is a catalog entry. png_url and svg_url point at publicly
// readable objects in the storage bucket; at least one is populated for
// every entry created through this service.
type Logo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	PNGURL      *string   `json:"png_url,omitempty"`
	SVGURL      *string   `json:"svg_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	UserID      *string   `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Categories is the fixed set of logo categories. The logos table
// enforces the same set with a CHECK constraint.
var Categories = []string{
	"Technology",
	"Finance",
	"Healthcare",
	"Retail",
	"Entertainment",
	"Social Media",
	"Other",
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Order selects the sort column for list queries.
type Order string

const (
	// OrderName sorts alphabetically by display name.
	OrderName Order = "name"
	// OrderNewest sorts by creation time, newest first.
	OrderNewest Order = "newest"
	// OrderOldest sorts by creation time, oldest first.
	OrderOldest Order = "oldest"
)

// ParseOrder maps a query-string value to an Order, defaulting to name.
func ParseOrder(s string) Order {
	switch Order(s) {
	case OrderNewest:
		return OrderNewest
	case OrderOldest:
		return OrderOldest
	default:
		return OrderName
	}
}

func (o Order) clause() string {
	switch o {
	case OrderNewest:
		return "created_at DESC"
	case OrderOldest:
		return "created_at ASC"
	default:
		return "name ASC"
	}
}

package logo

import (
	"fmt"
	"net/url"
	"strconv"
)

// MaxPageLimit caps the limit query parameter on list endpoints.
const MaxPageLimit = 500

// Page is an optional limit/offset window for list queries. The zero
// value means no window: the full result set is returned, matching the
// catalog's original full-scan behavior.
type Page struct {
	Limit  int
	Offset int
}

// PageFromQuery parses limit and offset query parameters. Absent or
// invalid values leave the zero (full-scan) page; limits above
// MaxPageLimit are clamped.
func PageFromQuery(values url.Values) Page {
	var p Page
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n > 0 {
		p.Limit = n
		if p.Limit > MaxPageLimit {
			p.Limit = MaxPageLimit
		}
	}
	if n, err := strconv.Atoi(values.Get("offset")); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// clause renders the SQL window, or nothing for a full scan.
func (p Page) clause() string {
	if p.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
}

package logo

import (
	"net/url"
	"testing"
)

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Page
	}{
		{name: "absent params keep full scan", query: "", want: Page{}},
		{name: "limit and offset", query: "limit=20&offset=40", want: Page{Limit: 20, Offset: 40}},
		{name: "limit clamped", query: "limit=10000", want: Page{Limit: MaxPageLimit}},
		{name: "negative values ignored", query: "limit=-5&offset=-1", want: Page{}},
		{name: "non-numeric ignored", query: "limit=abc&offset=xyz", want: Page{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			if got := PageFromQuery(values); got != tt.want {
				t.Errorf("PageFromQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestPageClause(t *testing.T) {
	if got := (Page{}).clause(); got != "" {
		t.Errorf("zero page clause = %q, want empty", got)
	}
	if got := (Page{Limit: 25, Offset: 50}).clause(); got != " LIMIT 25 OFFSET 50" {
		t.Errorf("clause = %q", got)
	}
}

package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/quotes", 6, 0},
		{"first page", "/quotes?page=1&limit=6", 6, 0},
		{"third page", "/quotes?page=3&limit=6", 6, 12},
		{"limit capped", "/quotes?limit=500", 100, 0},
		{"bad page ignored", "/quotes?page=zero", 6, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			p := ParsePage(r, 6, 100)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d, want limit=%d offset=%d", p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

// 13 records at 6 per page: page 3 holds exactly one record and is the last.
func TestLastPageArithmetic(t *testing.T) {
	const total, limit = 13, 6

	r := httptest.NewRequest("GET", "/quotes?page=3&limit=6", nil)
	p := ParsePage(r, 6, 100)

	remaining := total - p.Offset
	if remaining != 1 {
		t.Fatalf("page 3 must hold 1 record, got %d", remaining)
	}
	hasNext := p.Offset+limit < total
	if hasNext {
		t.Fatal("page 3 must be the last page")
	}

	w := httptest.NewRecorder()
	SetTotalCount(w, total)
	if got := w.Header().Get("X-Total-Count"); got != "13" {
		t.Fatalf("X-Total-Count = %q, want 13", got)
	}
}

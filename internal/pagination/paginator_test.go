package pagination_test

import (
	"fmt"
	"math"
	"testing"

	"confighub-core/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const base = "/api/v1/environments"

func strp(s string) *string { return &s }

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		page     int
		limit    int
		wantNext *string
		wantPrev *string
	}{
		{"empty collection", 0, 1, 10, nil, nil},
		{"single page", 3, 1, 10, nil, nil},
		{"exact fit", 10, 1, 10, nil, nil},
		{"first of two", 11, 1, 10, strp(base + "?page=2&limit=10"), nil},
		{"last of two", 11, 2, 10, nil, strp(base + "?page=1&limit=10")},
		{"middle page", 25, 2, 10, strp(base + "?page=3&limit=10"), strp(base + "?page=1&limit=10")},
		{"beyond last page", 5, 4, 2, nil, strp(base + "?page=3&limit=2")},
		{"limit one", 3, 2, 1, strp(base + "?page=3&limit=1"), strp(base + "?page=1&limit=1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := pagination.Paginate([]int{}, tt.total, tt.page, tt.limit, base)

			assert.Equal(t, tt.total, env.Count)
			assert.Equal(t, tt.wantNext, env.Next)
			assert.Equal(t, tt.wantPrev, env.Previous)
			assert.NotNil(t, env.Results)
		})
	}
}

func TestPaginate_NilItemsBecomeEmpty(t *testing.T) {
	env := pagination.Paginate[string](nil, 0, 1, 10, base)
	require.NotNil(t, env.Results)
	assert.Empty(t, env.Results)
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		want  int64
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 10, 20},
		{"page zero", 0, 10, 0},
		{"beyond int32", 42949674, 100, 4294967300},
		{"saturates", math.MaxInt, pagination.MaxLimit, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.Offset(tt.page, tt.limit))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), pagination.TotalPages(0, 10))
	assert.Equal(t, int64(1), pagination.TotalPages(1, 10))
	assert.Equal(t, int64(2), pagination.TotalPages(11, 10))
	assert.Equal(t, int64(0), pagination.TotalPages(5, 0))
}

func TestPaginate_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Int64Range(0, 5000).Draw(t, "total")
		limit := rapid.IntRange(1, pagination.MaxLimit).Draw(t, "limit")
		page := rapid.IntRange(1, 600).Draw(t, "page")

		env := pagination.Paginate([]int{}, total, page, limit, base)
		pages := pagination.TotalPages(total, limit)

		if env.Count != total {
			t.Fatalf("count %d != total %d", env.Count, total)
		}

		wantNext := int64(page) < pages
		if (env.Next != nil) != wantNext {
			t.Fatalf("next present=%v, want %v (page %d of %d)", env.Next != nil, wantNext, page, pages)
		}
		if wantNext && *env.Next != fmt.Sprintf("%s?page=%d&limit=%d", base, page+1, limit) {
			t.Fatalf("unexpected next link %q", *env.Next)
		}

		if (env.Previous != nil) != (page > 1) {
			t.Fatalf("previous present=%v for page %d", env.Previous != nil, page)
		}
		if page > 1 && *env.Previous != fmt.Sprintf("%s?page=%d&limit=%d", base, page-1, limit) {
			t.Fatalf("unexpected previous link %q", *env.Previous)
		}

		// every row lands on exactly one page
		if total > 0 && pagination.Offset(int(pages), limit) >= total {
			t.Fatalf("last page offset beyond total")
		}
	})
}

package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/vettracker/pkg/domain"
)

func TestPaginate(t *testing.T) {
	type When struct {
		total, requested int
	}
	type Then struct {
		page             domain.Page
		offset           int
		hasPrev, hasNext bool
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			got := domain.Paginate(when.total, when.requested, domain.PageSize)
			if diff := cmp.Diff(then.page, got); diff != "" {
				t.Errorf("page (-want +got):\n%s", diff)
			}
			if got.Offset() != then.offset {
				t.Errorf("offset: %d (want %d)", got.Offset(), then.offset)
			}
			if got.HasPrev() != then.hasPrev || got.HasNext() != then.hasNext {
				t.Errorf("prev/next: %v/%v (want %v/%v)", got.HasPrev(), got.HasNext(), then.hasPrev, then.hasNext)
			}
		}
	}

	t.Run("When the page is in range, it should be kept", theory(
		When{total: 20, requested: 2},
		Then{
			page:    domain.Page{Number: 2, Size: 9, Total: 20, TotalPages: 3},
			offset:  9,
			hasPrev: true, hasNext: true,
		},
	))
	t.Run("When the page is beyond the last, it should be clamped to the last", theory(
		When{total: 20, requested: 10},
		Then{
			page:    domain.Page{Number: 3, Size: 9, Total: 20, TotalPages: 3},
			offset:  18,
			hasPrev: true, hasNext: false,
		},
	))
	t.Run("When the page is not positive, it should be the first", theory(
		When{total: 20, requested: 0},
		Then{
			page:    domain.Page{Number: 1, Size: 9, Total: 20, TotalPages: 3},
			offset:  0,
			hasPrev: false, hasNext: true,
		},
	))
	t.Run("When there are no items, it should be the first of no pages", theory(
		When{total: 0, requested: 4},
		Then{
			page:    domain.Page{Number: 1, Size: 9, Total: 0, TotalPages: 0},
			offset:  0,
			hasPrev: false, hasNext: false,
		},
	))
}

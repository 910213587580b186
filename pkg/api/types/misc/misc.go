// Package misc has types shared by API types.
package misc

import (
	"time"

	"github.com/opst/vettracker/pkg/domain"
)

// DateLayout is the format of dates (without time) in requests and responses.
const DateLayout = "2006-01-02"

type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

func ComposeAudit(a domain.Audit) Audit {
	return Audit{
		CreatedAt: a.CreatedAt,
		CreatedBy: a.CreatedBy,
		UpdatedAt: a.UpdatedAt,
		UpdatedBy: a.UpdatedBy,
	}
}

// ComposeDate formats d with DateLayout. nil is nil.
func ComposeDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(DateLayout)
	return &s
}

// ParseDate reads a date in DateLayout. Empty string is nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Page is a page of listings.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	Total      int  `json:"total"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

func ComposePage[T any, R any](paged domain.Paged[T], compose func(T) R) Page[R] {
	items := make([]R, 0, len(paged.Items))
	for _, i := range paged.Items {
		items = append(items, compose(i))
	}
	return Page[R]{
		Items:      items,
		Page:       paged.Page.Number,
		TotalPages: paged.Page.TotalPages,
		Total:      paged.Page.Total,
		HasPrev:    paged.Page.HasPrev(),
		HasNext:    paged.Page.HasNext(),
	}
}

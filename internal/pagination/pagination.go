package pagination

import (
	"errors"
	"fmt"
)

// PageSizes are the only sizes the strip offers
var PageSizes = []int{5, 10, 20, 50}

const DefaultPageSize = 5

var ErrPageSize = errors.New("pagination: unsupported page size")

// ValidPageSize reports whether n is one of PageSizes
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

type Control struct {
	Target   int
	Disabled bool
}

// Strip is the navigation state for one render. It holds no state between renders.
type Strip struct {
	Page       int
	TotalPages int
	PerPage    int

	First Control
	Prev  Control
	Next  Control
	Last  Control
}

// Callbacks receive the strip's requests; either may be nil
type Callbacks struct {
	OnPageChange    func(page int)
	OnPerPageChange func(perPage int)
}

// Build derives the controls from the current listing state
func Build(page, totalPages, perPage int) Strip {
	atStart := page <= 1
	atEnd := totalPages == 0 || page >= totalPages

	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	next := page + 1
	if next > totalPages {
		next = totalPages
	}

	return Strip{
		Page:       page,
		TotalPages: totalPages,
		PerPage:    perPage,
		First:      Control{Target: 1, Disabled: atStart},
		Prev:       Control{Target: prev, Disabled: atStart},
		Next:       Control{Target: next, Disabled: atEnd},
		Last:       Control{Target: totalPages, Disabled: atEnd},
	}
}

// Press fires OnPageChange for an enabled control; disabled controls do nothing
func (s Strip) Press(ctl Control, cb Callbacks) bool {
	if ctl.Disabled || cb.OnPageChange == nil {
		return false
	}
	cb.OnPageChange(ctl.Target)
	return true
}

// ChoosePerPage fires OnPerPageChange for a size from PageSizes
func (s Strip) ChoosePerPage(n int, cb Callbacks) error {
	if !ValidPageSize(n) {
		return fmt.Errorf("%w: %d", ErrPageSize, n)
	}
	if cb.OnPerPageChange != nil {
		cb.OnPerPageChange(n)
	}
	return nil
}

// Label is the "Página x de y" caption
func (s Strip) Label() string {
	return fmt.Sprintf("Página %d de %d", s.Page, s.TotalPages)
}

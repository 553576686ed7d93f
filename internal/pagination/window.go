// Package pagination computes the bounded, ellipsis-collapsed page index
// sequences rendered by the directory's listing pages.
package pagination

// windowThreshold is the largest page count rendered without collapsing.
const windowThreshold = 7

// Item is one entry in a rendered page sequence: either a concrete,
// actionable page number or a non-actionable ellipsis placeholder.
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Page returns an actionable page item.
func Page(n int) Item { return Item{Page: n} }

// Ellipsis returns a non-actionable placeholder standing in for a
// collapsed range.
func Ellipsis() Item { return Item{Ellipsis: true} }

// Window returns the page items to render for the given 1-based current
// page and total page count. It is deterministic for every input pair.
//
// With one page or fewer there is nothing to paginate. Up to seven pages
// the full run is emitted. Beyond that a three-zone window applies: the
// head zone keeps pages 1-5, the tail zone keeps the last five, and the
// middle zone keeps the current page with one neighbour on each side,
// with the first and last page always visible.
func Window(current, total int) []Item {
	if total <= 1 {
		return nil
	}

	if total <= windowThreshold {
		items := make([]Item, 0, total)
		for n := 1; n <= total; n++ {
			items = append(items, Page(n))
		}
		return items
	}

	switch {
	case current <= 4:
		items := make([]Item, 0, 7)
		for n := 1; n <= 5; n++ {
			items = append(items, Page(n))
		}
		return append(items, Ellipsis(), Page(total))
	case current >= total-3:
		items := []Item{Page(1), Ellipsis()}
		for n := total - 4; n <= total; n++ {
			items = append(items, Page(n))
		}
		return items
	default:
		return []Item{
			Page(1),
			Ellipsis(),
			Page(current - 1),
			Page(current),
			Page(current + 1),
			Ellipsis(),
			Page(total),
		}
	}
}

// HasPrev reports whether a previous-page control should be enabled.
func HasPrev(current int) bool { return current > 1 }

// HasNext reports whether a next-page control should be enabled.
func HasNext(current, total int) bool { return current < total }

package vars

import (
	"strconv"

	"github.com/lunyk/kindred/internal/models"
)

// DateSpan is the normalized year view of a date. At most one case is
// populated: exact (with From == To mirroring it), closed range, before,
// after, or fully unknown (all fields empty).
type DateSpan struct {
	Exact  string
	From   string
	To     string
	Before string
	After  string
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// Span derives a DateSpan from a host-supplied date. Shapes are checked in
// order: exact year, closed range, before, after. A nil or zero date yields
// an empty span.
func Span(d *models.Date) DateSpan {
	if d == nil {
		return DateSpan{}
	}
	switch {
	case d.Year != 0:
		y := year(d.Year)
		return DateSpan{Exact: y, From: y, To: y}
	case d.FromYear != 0 || d.ToYear != 0:
		return DateSpan{From: year(d.FromYear), To: year(d.ToYear)}
	case d.BeforeYear != 0:
		return DateSpan{Before: year(d.BeforeYear)}
	case d.AfterYear != 0:
		return DateSpan{After: year(d.AfterYear)}
	}
	return DateSpan{}
}

// apply writes the span into v under <prefix>_year{,_from,_to,_before,_after}.
func (s DateSpan) apply(v Variables, prefix string) {
	v[prefix+"_year"] = s.Exact
	v[prefix+"_year_from"] = s.From
	v[prefix+"_year_to"] = s.To
	v[prefix+"_year_before"] = s.Before
	v[prefix+"_year_after"] = s.After
}

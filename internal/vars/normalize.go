package vars

import (
	"strconv"
	"strings"

	"github.com/lunyk/kindred/internal/models"
)

// Options carries the process-wide settings a normalization pass depends on.
// Locale is copied into the variable set verbatim, never validated.
type Options struct {
	MiddleNames MiddleNameHandling
	Locale      string
}

// Normalize derives the full variable set for a record. It is total: missing
// or partial record data yields empty string values, never an error. Every
// key defined for the record's navigation type is present in the result.
func Normalize(rec models.Record, opts Options) Variables {
	v := New(rec.RecordNavType())
	v["locale"] = opts.Locale

	switch r := rec.(type) {
	case *models.Person:
		fillPerson(v, "", r, opts.MiddleNames)
	case *models.Family:
		fillPerson(v, "father_", r.Father, opts.MiddleNames)
		fillPerson(v, "mother_", r.Mother, opts.MiddleNames)
		Span(eventDate(r.Marriage)).apply(v, "marriage")
		applyPlace(v, "marriage", r.Marriage)
		Span(eventDate(r.Divorce)).apply(v, "divorce")
		applyPlace(v, "divorce", r.Divorce)
	case *models.PlaceRecord:
		fillPlace(v, r.Place)
	case *models.SourceRecord:
		v["source_title"] = strings.TrimSpace(r.Title)
	}
	return v
}

func fillPerson(v Variables, prefix string, p *models.Person, mode MiddleNameHandling) {
	if p == nil {
		return
	}
	given, middle := SplitGivenName(p.Given, mode)
	v[prefix+"given"] = given
	v[prefix+"middle"] = middle
	v[prefix+"surname"] = strings.TrimSpace(p.Surname)

	Span(eventDate(p.Birth)).apply(v, prefix+"birth")
	Span(eventDate(p.Death)).apply(v, prefix+"death")
	applyPlace(v, prefix+"birth", p.Birth)
	applyPlace(v, prefix+"death", p.Death)
}

func fillPlace(v Variables, p *models.Place) {
	if p == nil {
		return
	}
	v["place"] = p.Name
	v["root_place"] = RootPlace(p)
	v["type"] = p.Type
	v["title"] = p.Title
	if p.Latitude != 0 {
		v["latitude"] = strconv.FormatFloat(p.Latitude, 'f', -1, 64)
	}
	if p.Longitude != 0 {
		v["longitude"] = strconv.FormatFloat(p.Longitude, 'f', -1, 64)
	}
}

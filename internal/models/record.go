package models

// Record is the narrow, read-only view of the active genealogical record as
// supplied by the host application. The engine never mutates a record and
// never reaches back into the host's object model.
type Record interface {
	RecordNavType() NavType
}

// Date is a calendar date of varying precision. Exactly one shape is honored,
// checked in this order: exact year, closed range, before, after. A zero Date
// is an unknown date.
type Date struct {
	Year       int `json:"year,omitempty"`
	FromYear   int `json:"from_year,omitempty"`
	ToYear     int `json:"to_year,omitempty"`
	BeforeYear int `json:"before_year,omitempty"`
	AfterYear  int `json:"after_year,omitempty"`
}

// Place is a node in the place containment hierarchy. Parent points at the
// enclosing place, or nil at the top.
type Place struct {
	Name      string  `json:"name"`
	Parent    *Place  `json:"parent,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Type      string  `json:"type,omitempty"`
	Title     string  `json:"title,omitempty"`
}

// Event couples an optional date with an optional place (birth, death,
// marriage, divorce).
type Event struct {
	Date  *Date  `json:"date,omitempty"`
	Place *Place `json:"place,omitempty"`
}

// Attribute is one free-form name/value pair attached to a record.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Person is the active record on the People view. Notes holds the text of
// the record's notes; URLs the address list of its Internet tab.
type Person struct {
	ID         string      `json:"id,omitempty"`
	Given      string      `json:"given,omitempty"` // full given name as recorded, may carry middle tokens
	Surname    string      `json:"surname,omitempty"`
	Birth      *Event      `json:"birth,omitempty"`
	Death      *Event      `json:"death,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Notes      []string    `json:"notes,omitempty"`
	URLs       []string    `json:"urls,omitempty"`
}

// Family is the active record on the Families view.
type Family struct {
	ID         string      `json:"id,omitempty"`
	Father     *Person     `json:"father,omitempty"`
	Mother     *Person     `json:"mother,omitempty"`
	Marriage   *Event      `json:"marriage,omitempty"`
	Divorce    *Event      `json:"divorce,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Notes      []string    `json:"notes,omitempty"`
	URLs       []string    `json:"urls,omitempty"`
}

// PlaceRecord is the active record on the Places view.
type PlaceRecord struct {
	ID    string   `json:"id,omitempty"`
	Place *Place   `json:"place,omitempty"`
	Notes []string `json:"notes,omitempty"`
	URLs  []string `json:"urls,omitempty"`
}

// SourceRecord is the active record on the Sources view.
type SourceRecord struct {
	ID         string      `json:"id,omitempty"`
	Title      string      `json:"title,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Notes      []string    `json:"notes,omitempty"`
	URLs       []string    `json:"urls,omitempty"`
}

func (*Person) RecordNavType() NavType       { return NavPerson }
func (*Family) RecordNavType() NavType       { return NavFamily }
func (*PlaceRecord) RecordNavType() NavType  { return NavPlace }
func (*SourceRecord) RecordNavType() NavType { return NavSource }

// RecordID returns the host identifier of the record, or "" when absent.
func RecordID(rec Record) string {
	switch r := rec.(type) {
	case *Person:
		return r.ID
	case *Family:
		return r.ID
	case *PlaceRecord:
		return r.ID
	case *SourceRecord:
		return r.ID
	}
	return ""
}

// RecordAttributes returns the free-form attributes of the record, or nil for
// record kinds that carry none.
func RecordAttributes(rec Record) []Attribute {
	switch r := rec.(type) {
	case *Person:
		return r.Attributes
	case *Family:
		return r.Attributes
	case *SourceRecord:
		return r.Attributes
	}
	return nil
}

// RecordNotes returns the note texts attached to the record.
func RecordNotes(rec Record) []string {
	switch r := rec.(type) {
	case *Person:
		return r.Notes
	case *Family:
		return r.Notes
	case *PlaceRecord:
		return r.Notes
	case *SourceRecord:
		return r.Notes
	}
	return nil
}

// RecordURLs returns the Internet-tab address list of the record.
func RecordURLs(rec Record) []string {
	switch r := rec.(type) {
	case *Person:
		return r.URLs
	case *Family:
		return r.URLs
	case *PlaceRecord:
		return r.URLs
	case *SourceRecord:
		return r.URLs
	}
	return nil
}

// Package vars derives the substitutable variable set from the active record:
// date spans, place hierarchy resolution, and given/middle/surname splitting.
package vars

import "github.com/lunyk/kindred/internal/models"

// Variables maps a variable name to its string value. Values may be empty;
// every name defined for the record's navigation type is always present so
// that templates never reference an undefined key silently.
type Variables map[string]string

// Clone returns an independent copy of v.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func yearKeys(prefix string) []string {
	return []string{
		prefix + "_year",
		prefix + "_year_from",
		prefix + "_year_to",
		prefix + "_year_before",
		prefix + "_year_after",
	}
}

func placeKeys(prefix string) []string {
	return []string{prefix + "_place", prefix + "_root_place"}
}

func nameKeys(prefix string) []string {
	return []string{prefix + "given", prefix + "middle", prefix + "surname"}
}

func personKeys(prefix string) []string {
	keys := nameKeys(prefix)
	keys = append(keys, yearKeys(prefix+"birth")...)
	keys = append(keys, yearKeys(prefix+"death")...)
	keys = append(keys, placeKeys(prefix+"birth")...)
	keys = append(keys, placeKeys(prefix+"death")...)
	return keys
}

// Keys returns the full variable vocabulary for a navigation type.
func Keys(nav models.NavType) []string {
	var keys []string
	switch nav {
	case models.NavPerson:
		keys = personKeys("")
	case models.NavFamily:
		keys = personKeys("father_")
		keys = append(keys, personKeys("mother_")...)
		keys = append(keys, yearKeys("marriage")...)
		keys = append(keys, placeKeys("marriage")...)
		keys = append(keys, yearKeys("divorce")...)
		keys = append(keys, placeKeys("divorce")...)
	case models.NavPlace:
		keys = []string{"place", "root_place", "latitude", "longitude", "type", "title"}
	case models.NavSource:
		keys = []string{"source_title"}
	}
	return append(keys, "locale")
}

// New returns a Variables map for nav with every key present and empty.
func New(nav models.NavType) Variables {
	keys := Keys(nav)
	v := make(Variables, len(keys))
	for _, k := range keys {
		v[k] = ""
	}
	return v
}

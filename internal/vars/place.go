package vars

import "github.com/lunyk/kindred/internal/models"

// RootPlace walks the containment hierarchy upward and returns the name of
// the topmost ancestor. A place without parents is its own root. A cycle in
// the hierarchy terminates at the deepest acyclic ancestor instead of
// looping.
func RootPlace(p *models.Place) string {
	if p == nil {
		return ""
	}
	seen := map[*models.Place]struct{}{p: {}}
	cur := p
	for cur.Parent != nil {
		if _, ok := seen[cur.Parent]; ok {
			break
		}
		cur = cur.Parent
		seen[cur] = struct{}{}
	}
	return cur.Name
}

func placeName(p *models.Place) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func eventPlace(e *models.Event) *models.Place {
	if e == nil {
		return nil
	}
	return e.Place
}

func eventDate(e *models.Event) *models.Date {
	if e == nil {
		return nil
	}
	return e.Date
}

// applyPlace writes <prefix>_place and <prefix>_root_place from an event's place.
func applyPlace(v Variables, prefix string, e *models.Event) {
	p := eventPlace(e)
	v[prefix+"_place"] = placeName(p)
	v[prefix+"_root_place"] = RootPlace(p)
}

package display

import "candela/internal/backend"

// Query is a predicate over merged display records, used to pick displays
// out of an enumeration result. Predicates on optional fields match only
// when the field is present and equal.
type Query interface {
	Matches(info *Info) bool
}

type queryFunc func(info *Info) bool

func (f queryFunc) Matches(info *Info) bool { return f(info) }

// Any matches every display.
func Any() Query {
	return queryFunc(func(*Info) bool { return true })
}

// BackendIs matches displays surfaced by b.
func BackendIs(b backend.Backend) Query {
	return queryFunc(func(info *Info) bool { return info.Backend == b })
}

// IDIs matches the display with the given enumeration identifier.
func IDIs(id string) Query {
	return queryFunc(func(info *Info) bool { return info.ID == id })
}

// ManufacturerIs matches on the EDID manufacturer code, e.g. "DEL".
func ManufacturerIs(id string) Query {
	return queryFunc(func(info *Info) bool {
		return info.ManufacturerID != nil && *info.ManufacturerID == id
	})
}

// ModelNameIs matches on the reported model name.
func ModelNameIs(name string) Query {
	return queryFunc(func(info *Info) bool {
		return info.ModelName != nil && *info.ModelName == name
	})
}

// SerialNumberIs matches on the textual serial number.
func SerialNumberIs(serial string) Query {
	return queryFunc(func(info *Info) bool {
		return info.SerialNumber != nil && *info.SerialNumber == serial
	})
}

// And matches only when every sub-query matches. With no sub-queries it
// behaves like Any.
func And(queries ...Query) Query {
	return queryFunc(func(info *Info) bool {
		for _, q := range queries {
			if !q.Matches(info) {
				return false
			}
		}
		return true
	})
}

// Or matches when at least one sub-query matches. With no sub-queries it
// matches nothing.
func Or(queries ...Query) Query {
	return queryFunc(func(info *Info) bool {
		for _, q := range queries {
			if q.Matches(info) {
				return true
			}
		}
		return false
	})
}

package downloader

// editionSuffix marks the second issue sharing a date
const editionSuffix = "-ed-2"

// Editions assigns a unique output key to each issue date within one run.
// The first issue on a date keeps the date as its key; a repeat gets the
// "-ed-2" suffix. The scheme distinguishes exactly one repeat per date: a
// third issue sharing the date maps to the "-ed-2" key again and replaces
// the second. That matches the archive's historical behavior; see DESIGN.md
// before changing it.
type Editions struct {
	used map[string]bool
}

// NewEditions creates an empty key tracker for one run
func NewEditions() *Editions {
	return &Editions{used: make(map[string]bool)}
}

// Key returns the output key for an issue with the given date, in traversal
// order. Must be called serially even when issue fetching is parallel, so
// suffix assignment stays deterministic.
func (e *Editions) Key(date string) string {
	if !e.used[date] {
		e.used[date] = true
		return date
	}

	key := date + editionSuffix
	e.used[key] = true
	return key
}

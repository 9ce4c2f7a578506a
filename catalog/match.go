package catalog

import "strings"

/*
match.go - Free-text description to catalog entry resolution

POLICY:
  A candidate description matches entry E when either:
  - E's item code occurs literally as a substring of the description, or
  - E's canonical description occurs as a case-insensitive substring of
    the candidate description.

TIE-BREAK:
  Several entries can match the same line ("ICE CREAM" vs "ICE CREAM MIX").
  Entries are probed longest-canonical-description first, with remaining
  ties broken by ascending item code, so the most specific entry wins and
  the outcome never depends on map iteration order.

  No match is a reported outcome, not a failure.
*/

// Match resolves a free-text invoice description to at most one catalog
// entry. The boolean is false when nothing in the catalog matches.
func (c *Catalog) Match(description string) (Entry, bool) {
	if description == "" {
		return Entry{}, false
	}
	upper := strings.ToUpper(description)

	for _, e := range c.matchOrder {
		if strings.Contains(description, e.ItemCode) {
			return e, true
		}
		// Guard against empty canonical descriptions: an empty string is a
		// substring of everything and would swallow every line.
		if e.Description != "" && strings.Contains(upper, strings.ToUpper(e.Description)) {
			return e, true
		}
	}
	return Entry{}, false
}

package render

import (
	"maps"
	"slices"
	"strings"
)

// ExpandState is the set of open units for one view. It lives only in the
// open query parameter and the browser DOM.
type ExpandState struct {
	open map[string]struct{}
}

// ParseExpandState reads a comma-separated list of unit ids.
func ParseExpandState(raw string) ExpandState {
	s := ExpandState{open: make(map[string]struct{})}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			s.open[id] = struct{}{}
		}
	}
	return s
}

// IsOpen reports whether the unit is expanded.
func (s ExpandState) IsOpen(id string) bool {
	_, ok := s.open[id]
	return ok
}

// Toggle flips the unit between expanded and collapsed.
func (s *ExpandState) Toggle(id string) {
	if s.open == nil {
		s.open = make(map[string]struct{})
	}
	if _, ok := s.open[id]; ok {
		delete(s.open, id)
		return
	}
	s.open[id] = struct{}{}
}

// Toggled returns a copy of s with id flipped.
func (s ExpandState) Toggled(id string) ExpandState {
	c := ExpandState{open: maps.Clone(s.open)}
	c.Toggle(id)
	return c
}

// Len returns the number of open units.
func (s ExpandState) Len() int {
	return len(s.open)
}

// Encode is the inverse of ParseExpandState, sorted for stable URLs.
func (s ExpandState) Encode() string {
	return strings.Join(slices.Sorted(maps.Keys(s.open)), ",")
}

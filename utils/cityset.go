package utils

import "strings"

// CitySet is an ordered set of city names. Insertion order is kept so that
// reports and exports list cities the way they were configured.
type CitySet struct {
	order []string
	seen  map[string]struct{}
}

// NewCitySet builds a set from names, trimming whitespace and dropping
// blanks and repeats.
func NewCitySet(names ...string) *CitySet {
	s := &CitySet{seen: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add returns true if the city was newly added, false if already present
// or blank.
func (s *CitySet) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, exists := s.seen[name]; exists {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Contains returns true if the city is part of the set.
func (s *CitySet) Contains(name string) bool {
	_, exists := s.seen[name]
	return exists
}

// Size returns the number of unique cities tracked.
func (s *CitySet) Size() int {
	return len(s.order)
}

// Names returns a copy of the cities in insertion order.
func (s *CitySet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

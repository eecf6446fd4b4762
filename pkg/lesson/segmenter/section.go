package segmenter

import "strings"

// Section is a named, contiguous portion of a lesson document.
type Section struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// Sections is an ordered mapping of section name to body. Names are unique
// and the order is first appearance in the source document.
type Sections []Section

// Get returns the section stored under exactly name.
func (s Sections) Get(name string) (Section, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// Find resolves a user-supplied name: exact match first, then the
// canonicalized name, then a case-insensitive comparison.
func (s Sections) Find(name string) (Section, bool) {
	name = strings.TrimSpace(name)
	if sec, ok := s.Get(name); ok {
		return sec, true
	}
	if sec, ok := s.Get(Canonicalize(CleanTitle(name))); ok {
		return sec, true
	}
	for _, sec := range s {
		if strings.EqualFold(sec.Name, name) {
			return sec, true
		}
	}
	return Section{}, false
}

// Names lists section names in document order.
func (s Sections) Names() []string {
	names := make([]string, len(s))
	for i, sec := range s {
		names[i] = sec.Name
	}
	return names
}

// Map flattens the sections into a name → body map.
func (s Sections) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, sec := range s {
		m[sec.Name] = sec.Body
	}
	return m
}

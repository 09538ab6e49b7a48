package view

import "regexp"

// Pattern describes view elements to match. Empty fields match anything.
type Pattern struct {
	// Name matches the element name exactly.
	Name string

	// NameRegexp matches the element name.
	NameRegexp *regexp.Regexp

	// Attributes maps attribute keys to required values. An empty value
	// only requires presence.
	Attributes map[string]string

	// Classes lists required classes.
	Classes []string

	// Styles maps style properties to required values (empty = presence).
	Styles map[string]string

	// Func is an additional predicate evaluated last.
	Func func(*Element) bool
}

// Match is the result of matching a pattern: which parts of the element
// were matched and therefore may be consumed.
type Match struct {
	Element    *Element
	Name       bool
	Attributes []string
	Classes    []string
	Styles     []string
}

// Matcher matches elements against one or more patterns.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates a matcher for the given patterns.
func NewMatcher(patterns ...Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// Add appends a pattern.
func (m *Matcher) Add(p Pattern) {
	m.patterns = append(m.patterns, p)
}

// ElementName returns the exact element name when every pattern names the
// same element, or "".
func (m *Matcher) ElementName() string {
	name := ""
	for i, p := range m.patterns {
		if p.Name == "" || (i > 0 && p.Name != name) {
			return ""
		}
		name = p.Name
	}
	return name
}

// Match returns the first pattern match for el, or nil.
func (m *Matcher) Match(el *Element) *Match {
	for _, p := range m.patterns {
		if match := p.match(el); match != nil {
			return match
		}
	}
	return nil
}

func (p Pattern) match(el *Element) *Match {
	if el == nil {
		return nil
	}
	match := &Match{Element: el}

	if p.Name != "" {
		if el.name != p.Name {
			return nil
		}
		match.Name = true
	}
	if p.NameRegexp != nil {
		if !p.NameRegexp.MatchString(el.name) {
			return nil
		}
		match.Name = true
	}
	for key, want := range p.Attributes {
		got, ok := el.GetAttribute(key)
		if !ok || (want != "" && got != want) {
			return nil
		}
		match.Attributes = append(match.Attributes, key)
	}
	for _, c := range p.Classes {
		if !el.HasClass(c) {
			return nil
		}
		match.Classes = append(match.Classes, c)
	}
	for prop, want := range p.Styles {
		got, ok := el.GetStyle(prop)
		if !ok || (want != "" && got != want) {
			return nil
		}
		match.Styles = append(match.Styles, prop)
	}
	if p.Func != nil && !p.Func(el) {
		return nil
	}
	return match
}

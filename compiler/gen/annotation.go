package gen

import (
	"encoding/json"
	"regexp"
	"strings"
)

// directiveRe matches a single directive on one documentation line:
//
//	@@Gen.model(hide: true)
var directiveRe = regexp.MustCompile(`@@Gen\.([A-Za-z]+)\((.*)\)`)

// Attributes are the key/value arguments of an entity directive.
type Attributes map[string]any

// Hidden reports whether the entity is marked hidden.
func (a Attributes) Hidden() bool {
	return truthy(a["hide"])
}

// ParseAttributes extracts the arguments of the @@Gen.model directive from an
// entity's documentation. Missing, foreign or malformed directives yield an
// empty map; the parser never fails.
func ParseAttributes(doc string) Attributes {
	attrs := Attributes{}
	m := directiveRe.FindStringSubmatch(doc)
	if m == nil || m[1] != "model" {
		return attrs
	}
	for _, arg := range splitTopLevel(m[2], ',') {
		key, value, ok := cutTopLevel(arg, ':')
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'`)
		if key == "" {
			continue
		}
		attrs[key] = parseLiteral(strings.TrimSpace(value))
	}
	return attrs
}

// parseLiteral decodes s as a JSON literal, falling back to the raw string.
func parseLiteral(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// splitTopLevel splits s on sep, ignoring separators nested in brackets,
// braces or quotes.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// cutTopLevel is like strings.Cut, but only cuts on a top-level separator.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	parts := splitTopLevel(s, sep)
	if len(parts) < 2 {
		return s, "", false
	}
	return parts[0], s[len(parts[0])+1:], true
}

// truthy follows the truthiness rules of the emitted language.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

// Set is a set of entity names.
type Set map[string]struct{}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// HiddenEntities returns the names of the entities whose documentation marks
// them hidden. The result is computed once, before any entity is filtered.
func HiddenEntities(entities []*Entity) Set {
	hidden := Set{}
	for _, e := range entities {
		if ParseAttributes(e.Documentation).Hidden() {
			hidden[e.Name] = struct{}{}
		}
	}
	return hidden
}

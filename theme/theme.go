// Package theme models the visitor's light/dark display preference.
package theme

import "strings"

// Preference is the display mode selected by the visitor.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Toggle returns the opposite preference. Anything that is not Dark flips
// to Dark.
func (p Preference) Toggle() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

// Valid reports whether p is one of the two known preferences.
func (p Preference) Valid() bool {
	return p == Light || p == Dark
}

func (p Preference) String() string {
	return string(p)
}

// Parse reads a preference name case-insensitively, returning fallback for
// anything unrecognised.
func Parse(s string, fallback Preference) Preference {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light
	case Dark:
		return Dark
	}
	return fallback
}

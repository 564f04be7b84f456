package models

import (
	"fmt"
	"strings"
)

// Platform is the destination a piece of marketing copy is written for.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformEmail     Platform = "email"
	PlatformBlog      Platform = "blog"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformInstagram, PlatformLinkedIn, PlatformEmail, PlatformBlog}

var platformLabels = map[Platform]string{
	PlatformInstagram: "Instagram Caption",
	PlatformLinkedIn:  "LinkedIn Post",
	PlatformEmail:     "Email Campaign",
	PlatformBlog:      "Blog Summary",
}

// ParsePlatform accepts a platform name in any case.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of Platforms.
func (p Platform) Valid() bool {
	_, ok := platformLabels[p]
	return ok
}

// Label is the human description shown in the platform selector.
func (p Platform) Label() string {
	if label, ok := platformLabels[p]; ok {
		return label
	}
	return string(p)
}

// Title capitalizes the first letter, e.g. "Instagram".
func (p Platform) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Social reports whether content for p can be posted through the social
// publishing provider.
func (p Platform) Social() bool {
	return p == PlatformInstagram || p == PlatformLinkedIn
}

func (p Platform) String() string {
	return string(p)
}

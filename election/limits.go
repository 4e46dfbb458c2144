// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidatePositionLimits enforces 0 <= min <= max and max >= 1.
func ValidatePositionLimits(min, max int) error {
	if min < 0 {
		return configErr("min", "minimum must not be negative")
	}
	if max < 1 {
		return configErr("max", "maximum must be at least 1")
	}
	if min > max {
		return configErr("min", "minimum must be less than or equal to maximum")
	}
	return nil
}

// ValidatePositionName enforces the 3-50 character display name.
func ValidatePositionName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 3 || n > 50 {
		return configErr("name", "name must be between 3 and 50 characters")
	}
	return nil
}

// NormalizeSlug trims and lowercases a user supplied slug.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateSlug checks that slug is lowercase and URL-safe.
func ValidateSlug(slug string) error {
	if len(slug) < 3 || len(slug) > 64 {
		return configErr("slug", "slug must be between 3 and 64 characters")
	}
	if !slugPattern.MatchString(slug) {
		return configErr("slug", "slug may only contain lowercase letters, digits and single hyphens")
	}
	return nil
}

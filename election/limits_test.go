// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "testing"

func TestValidatePositionLimits(t *testing.T) {
	tests := []struct {
		min, max int
		wantErr  bool
	}{
		{0, 1, false},
		{1, 1, false},
		{0, 3, false},
		{2, 5, false},
		{0, 0, true},
		{2, 1, true},
		{-1, 1, true},
	}

	for _, tt := range tests {
		err := ValidatePositionLimits(tt.min, tt.max)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositionLimits(%d, %d) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
		}
	}
}

func TestValidatePositionName(t *testing.T) {
	if err := ValidatePositionName("President"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePositionName("VP"); err == nil {
		t.Error("expected error for short name")
	}
	if err := ValidatePositionName("This position name is far too long to be displayed!"); err == nil {
		t.Error("expected error for long name")
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug    string
		wantErr bool
	}{
		{"ssg-2024", false},
		{"csc", false},
		{"abc123", false},
		{"ab", true},
		{"SSG", true},
		{"ssg--2024", true},
		{"-ssg", true},
		{"ssg 2024", true},
		{"ssg/2024", true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := NormalizeSlug("  SSG-2024 "); got != "ssg-2024" {
		t.Errorf("NormalizeSlug() = %q", got)
	}
}

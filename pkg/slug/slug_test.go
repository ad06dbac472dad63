// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/clubapi/pkg/slug"
)

/*
TestFrom covers the slug pipeline over ASCII, accents, and punctuation.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Red Lions FC", "red-lions-fc"},
		{"accents", "Étoile Göteborg", "etoile-goteborg"},
		{"punctuation", "U17 — Boys (North)!", "u17-boys-north"},
		{"collapsed_hyphens", "a  - -  b", "a-b"},
		{"trimmed", "  -- edges -- ", "edges"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{"no tags", "just a caption", nil},
		{"single tag", "sunset at the beach #sunset", []string{"sunset"}},
		{"multiple tags", "#golf #travel morning round", []string{"golf", "travel"}},
		{"case folded", "#Sunset and #SUNSET again", []string{"sunset"}},
		{"duplicates keep first position", "#b #a #b", []string{"b", "a"}},
		{"digits and underscores", "#no1_fan", []string{"no1_fan"}},
		{"bare hash ignored", "price # 100", nil},
		{"empty caption", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHashtags(tt.caption)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

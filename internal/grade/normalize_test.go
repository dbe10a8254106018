package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFinalAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain value", "8", "8"},
		{"equation takes rightmost", "48 / 6 = 8", "8"},
		{"last equals wins", "x + 5 = 10 = 2 * 5", "2 * 5"},
		{"over notation", "2 over 3", "2/3"},
		{"over is case-insensitive", "2 OVER 3", "2/3"},
		{"spaced slash", "2 / 3", "2/3"},
		{"hyphen fraction bar", "2 - 3", "2/3"},
		{"en dash fraction bar", "2 – 3", "2/3"},
		{"em dash fraction bar", "2—3", "2/3"},
		{"equation then fraction", "4/6 = 2 over 3", "2/3"},
		{"surrounding whitespace", "  42  ", "42"},
		{"text answer untouched", "Paris", "Paris"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFinalAnswer(tt.in))
		})
	}
}

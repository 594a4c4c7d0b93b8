package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		given       string
		constraints []string
		expected    string
	}{
		{"", []string{No, Yes}, No},
		{"Y", []string{No, Yes}, Yes},
		{" y ", []string{No, Yes}, Yes},
		{"maybe", []string{No, Yes}, No},
		{"free text", nil, "free text"},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			assert.Equal(t, test.expected, normalize(test.given, test.constraints))
		})
	}
}

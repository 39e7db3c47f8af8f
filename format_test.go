package capescout_test

import (
	"testing"

	"github.com/jbekker/capescout"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	intp := func(n int) *int { return &n }

	tests := []struct {
		name  string
		price *int
		want  string
	}{
		{"formats millions with separators", intp(7500000), "R7,500,000"},
		{"formats thousands", intp(950000), "R950,000"},
		{"formats small amounts without separators", intp(500), "R500"},
		{"formats zero", intp(0), "R0"},
		{"formats nil as price on application", nil, "POA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, capescout.FormatPrice(tt.price))
		})
	}
}

package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecrementSaturating_NeverNegative(t *testing.T) {
	var c Counter

	assert.False(t, c.DecrementSaturating())
	assert.False(t, c.DecrementSaturating())
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.IsZero())
}

func TestDecrementSaturating_ReportsZeroExactlyOnce(t *testing.T) {
	var c Counter
	c.Increment()
	c.Increment()

	assert.False(t, c.DecrementSaturating())
	assert.True(t, c.DecrementSaturating())
	assert.False(t, c.DecrementSaturating())
}

func TestCounter_Sequences(t *testing.T) {
	tests := []struct {
		name     string
		ops      string
		want     int
		zeroHits int
	}{
		{"balanced", "++--", 0, 1},
		{"extra pops", "+---", 0, 1},
		{"unbalanced", "+++-", 2, 0},
		{"pop first", "-+-", 0, 1},
		{"twice to zero", "+-+-", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Counter
			hits := 0
			for _, op := range tt.ops {
				if op == '+' {
					c.Increment()
					continue
				}
				if c.DecrementSaturating() {
					hits++
				}
				assert.GreaterOrEqual(t, c.Count(), 0)
			}
			assert.Equal(t, tt.want, c.Count())
			assert.Equal(t, tt.zeroHits, hits)
		})
	}
}

func TestReset(t *testing.T) {
	var c Counter
	c.Increment()
	c.Reset()
	assert.True(t, c.IsZero())
}

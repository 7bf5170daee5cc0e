package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		level      string
		hours      int
		multiplier float64
		days       int
	}{
		{SensitivityLow, 2, 10, 90},
		{SensitivityMedium, 4, 5, 30},
		{SensitivityHigh, 8, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			p := ProfileFor(tt.level)
			assert.Equal(t, tt.level, p.Level)
			assert.Equal(t, tt.hours, p.HourThreshold)
			assert.Equal(t, tt.multiplier, p.VolumeMultiplier)
			assert.Equal(t, tt.days, p.NewObjectDays)
		})
	}
}

func TestProfileFor_FallbackToMedium(t *testing.T) {
	for _, level := range []string{"", "extreme", "MEDIUM"} {
		p := ProfileFor(level)
		assert.Equal(t, SensitivityMedium, p.Level, "level %q", level)
	}
}

package anomaly

// Sensitivity levels accepted by ProfileFor.
const (
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

// Profile bundles the tunable detection parameters. HourThreshold and
// NewObjectDays drive the new-object grace window; VolumeMultiplier scales
// the deviation rules. The unusual-hours clock check is fixed and not part
// of the profile.
type Profile struct {
	Level            string
	HourThreshold    int // hours after object creation that still count as "new"
	VolumeMultiplier float64
	NewObjectDays    int
}

var profiles = map[string]Profile{
	SensitivityLow:    {Level: SensitivityLow, HourThreshold: 2, VolumeMultiplier: 10, NewObjectDays: 90},
	SensitivityMedium: {Level: SensitivityMedium, HourThreshold: 4, VolumeMultiplier: 5, NewObjectDays: 30},
	SensitivityHigh:   {Level: SensitivityHigh, HourThreshold: 8, VolumeMultiplier: 3, NewObjectDays: 7},
}

// ProfileFor maps a sensitivity token to its parameters. Unrecognized
// tokens fall back to medium.
func ProfileFor(level string) Profile {
	if p, ok := profiles[level]; ok {
		return p
	}
	return profiles[SensitivityMedium]
}

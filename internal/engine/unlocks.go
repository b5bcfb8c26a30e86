package engine

import "math"

// ArtifactType names the statistic an artifact is gated on.
type ArtifactType string

const (
	ArtifactStreak      ArtifactType = "streak"
	ArtifactEntries     ArtifactType = "entries"
	ArtifactConsistency ArtifactType = "consistency"
)

// Artifact is an unlockable achievement from the read-only catalog.
// Threshold against the matching statistic is the contract; name and icon
// are cosmetic.
type Artifact struct {
	ID        string
	Type      ArtifactType
	Threshold int
	Name      string
	Icon      string
}

// Catalog returns the built-in artifact definitions.
func Catalog() []Artifact {
	return []Artifact{
		{ID: "streak_3", Type: ArtifactStreak, Threshold: 3, Name: "Kindling", Icon: "🕯️"},
		{ID: "streak_7", Type: ArtifactStreak, Threshold: 7, Name: "Week of Fire", Icon: "🔥"},
		{ID: "streak_15", Type: ArtifactStreak, Threshold: 15, Name: "Steady Flame", Icon: "🏮"},
		{ID: "streak_30", Type: ArtifactStreak, Threshold: 30, Name: "Month Ablaze", Icon: "🌋"},
		{ID: "streak_60", Type: ArtifactStreak, Threshold: 60, Name: "Eternal Ember", Icon: "☀️"},
		{ID: "entries_1", Type: ArtifactEntries, Threshold: 1, Name: "First Spark", Icon: "✨"},
		{ID: "entries_10", Type: ArtifactEntries, Threshold: 10, Name: "Ten Logged", Icon: "📋"},
		{ID: "entries_50", Type: ArtifactEntries, Threshold: 50, Name: "Fifty Strong", Icon: "🏅"},
		{ID: "entries_100", Type: ArtifactEntries, Threshold: 100, Name: "Centurion", Icon: "🏆"},
		{ID: "entries_250", Type: ArtifactEntries, Threshold: 250, Name: "Archivist", Icon: "📚"},
		{ID: "consistency_25", Type: ArtifactConsistency, Threshold: 25, Name: "Finding Rhythm", Icon: "🥁"},
		{ID: "consistency_50", Type: ArtifactConsistency, Threshold: 50, Name: "Halfway Held", Icon: "⚖️"},
		{ID: "consistency_75", Type: ArtifactConsistency, Threshold: 75, Name: "Locked In", Icon: "🔒"},
	}
}

// UnlockStats is the snapshot the evaluator compares against the catalog.
type UnlockStats struct {
	Streak      int
	Entries     int
	Consistency int
}

func (s UnlockStats) value(t ArtifactType) int {
	switch t {
	case ArtifactStreak:
		return s.Streak
	case ArtifactEntries:
		return s.Entries
	case ArtifactConsistency:
		return s.Consistency
	default:
		return 0
	}
}

// Consistency computes min(100, round(streak/(totalEntries+1)*100)).
// The catalog thresholds are calibrated against this exact formula; do not
// change one without the other.
func Consistency(streak, totalEntries int) int {
	v := int(math.Round(float64(streak) / float64(totalEntries+1) * 100))
	if v > 100 {
		v = 100
	}
	return v
}

// EvaluateUnlocks returns the catalog entries newly satisfied by stats.
// The already-unlocked set is checked before evaluation, so repeated calls
// with the same stats return nothing new, and an entry once unlocked is
// never returned again even if stats later regress below its threshold.
func EvaluateUnlocks(stats UnlockStats, unlocked map[string]bool, catalog []Artifact) []Artifact {
	var fresh []Artifact
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if stats.value(a.Type) >= a.Threshold {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

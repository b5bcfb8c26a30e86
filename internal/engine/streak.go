package engine

// Tier is the coarse habit classification derived from streak length alone.
type Tier string

const (
	TierSpark     Tier = "spark"
	TierHabit     Tier = "habit"
	TierCommitted Tier = "committed"
)

const (
	tierHabitDays     = 4
	tierCommittedDays = 15
)

// ComputeTier buckets a streak length. Strength never influences tier; it
// is a separate display axis.
func ComputeTier(days int) Tier {
	switch {
	case days >= tierCommittedDays:
		return TierCommitted
	case days >= tierHabitDays:
		return TierHabit
	default:
		return TierSpark
	}
}

// StreakQuery scopes a streak computation. A zero Anchor means the live
// "is my streak alive right now" query, which applies the one-day grace;
// an explicit Anchor is a frozen historical query and never does.
type StreakQuery struct {
	TaskID string
	Anchor Date
}

func dayValid(m RecordsMap, day Date, taskID string, archived map[string]bool) bool {
	for _, r := range m[day] {
		if taskID != "" && r.TaskID != taskID {
			continue
		}
		if archived[r.TaskID] {
			continue
		}
		return true
	}
	return false
}

// streakStart picks the day the backward walk begins from, or reports that
// there is no live streak. Live queries survive until the current day ends:
// if today has nothing yet but yesterday was valid, the walk starts at
// yesterday instead of collapsing to zero.
func streakStart(m RecordsMap, q StreakQuery, today Date, archived map[string]bool) (Date, bool) {
	if !q.Anchor.IsZero() {
		if dayValid(m, q.Anchor, q.TaskID, archived) {
			return q.Anchor, true
		}
		return "", false
	}
	if dayValid(m, today, q.TaskID, archived) {
		return today, true
	}
	if yesterday := today.Prev(); dayValid(m, yesterday, q.TaskID, archived) {
		return yesterday, true
	}
	return "", false
}

// ComputeStreak counts consecutive valid days ending at the query's start
// day, walking strictly backward and stopping at the first gap.
func ComputeStreak(m RecordsMap, q StreakQuery, today Date, archived map[string]bool) int {
	start, ok := streakStart(m, q, today, archived)
	if !ok {
		return 0
	}
	days := 1
	for day := start.Prev(); !day.IsZero() && dayValid(m, day, q.TaskID, archived); day = day.Prev() {
		days++
	}
	return days
}

func recordWeight(r Record) float64 {
	if r.Intensity == nil {
		return 0.5
	}
	switch *r.Intensity {
	case 2:
		return 1.0
	case 3:
		return 1.5
	case 4:
		return 2.0
	default:
		return 0.5
	}
}

// ComputeStrength weights each day of the streak window by its recorded
// intensity. The window is chosen with the same grace rule as ComputeStreak
// so the two always describe the same run of days. Multiple records on one
// day should not occur, but if they do their weights sum.
func ComputeStrength(m RecordsMap, q StreakQuery, today Date, archived map[string]bool) float64 {
	start, ok := streakStart(m, q, today, archived)
	if !ok {
		return 0
	}
	total := 0.0
	for day := start; !day.IsZero() && dayValid(m, day, q.TaskID, archived); day = day.Prev() {
		for _, r := range m[day] {
			if q.TaskID != "" && r.TaskID != q.TaskID {
				continue
			}
			if archived[r.TaskID] {
				continue
			}
			total += recordWeight(r)
		}
	}
	return total
}

// StreakSnapshot is derived state, always recomputed from the records map
// and never persisted, so log and stats cannot drift apart.
type StreakSnapshot struct {
	Days     int     `json:"days"`
	Strength float64 `json:"strength"`
	Tier     Tier    `json:"tier"`
}

// Snapshot computes the full derived view for one query.
func Snapshot(m RecordsMap, q StreakQuery, today Date, archived map[string]bool) StreakSnapshot {
	days := ComputeStreak(m, q, today, archived)
	return StreakSnapshot{
		Days:     days,
		Strength: ComputeStrength(m, q, today, archived),
		Tier:     ComputeTier(days),
	}
}

// StrengthLabel buckets average per-day strength into a display label.
// Purely presentational.
func StrengthLabel(s StreakSnapshot) string {
	if s.Days == 0 {
		return "weak"
	}
	avg := s.Strength / float64(s.Days)
	switch {
	case avg < 0.75:
		return "weak"
	case avg < 1.25:
		return "normal"
	case avg < 1.75:
		return "strong"
	default:
		return "relentless"
	}
}

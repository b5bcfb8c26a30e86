package engine

import "sort"

// Phase is one rung of a task's metric ladder: meeting Threshold earns
// Intensity.
type Phase struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
	Intensity int     `json:"intensity" validate:"min=1,max=4"`
}

// MetricConfig maps a raw numeric input (in Unit) to a discrete intensity
// through an ordered ladder of thresholds.
type MetricConfig struct {
	Unit   string  `json:"unit"`
	Phases []Phase `json:"phases" validate:"dive"`
}

// ResolveIntensity returns the intensity of the highest-threshold phase the
// value meets, or nil when no phase threshold is met. Ties break toward the
// highest threshold, never insertion order.
func ResolveIntensity(cfg *MetricConfig, value float64) *int {
	if cfg == nil || len(cfg.Phases) == 0 {
		return nil
	}
	phases := make([]Phase, len(cfg.Phases))
	copy(phases, cfg.Phases)
	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].Threshold > phases[j].Threshold
	})
	for _, p := range phases {
		if p.Threshold <= value {
			intensity := p.Intensity
			return &intensity
		}
	}
	return nil
}

// StoredIntensity applies the write-time policy on top of resolution: a
// sub-threshold attempt still counts as a completion, scored minimally when
// the raw value is positive and left unscored otherwise.
func StoredIntensity(cfg *MetricConfig, value float64) *int {
	if resolved := ResolveIntensity(cfg, value); resolved != nil {
		return resolved
	}
	if value > 0 {
		minimal := IntensityMin
		return &minimal
	}
	return nil
}

// PhaseName reports which rung a value lands on, for display. Empty when
// sub-threshold or the task has no ladder.
func PhaseName(cfg *MetricConfig, value float64) string {
	if cfg == nil || len(cfg.Phases) == 0 {
		return ""
	}
	phases := make([]Phase, len(cfg.Phases))
	copy(phases, cfg.Phases)
	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].Threshold > phases[j].Threshold
	})
	for _, p := range phases {
		if p.Threshold <= value {
			return p.Name
		}
	}
	return ""
}

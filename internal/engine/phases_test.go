package engine

import "testing"

func buildMetric() *MetricConfig {
	// Deliberately unsorted: resolution must order by threshold itself.
	return &MetricConfig{
		Unit: "pages",
		Phases: []Phase{
			{Name: "Skim", Threshold: 5, Intensity: 1},
			{Name: "Deep", Threshold: 50, Intensity: 4},
			{Name: "Solid", Threshold: 20, Intensity: 3},
			{Name: "Steady", Threshold: 10, Intensity: 2},
		},
	}
}

func TestResolveIntensityPicksHighestMetThreshold(t *testing.T) {
	cfg := buildMetric()
	cases := []struct {
		value float64
		want  *int
	}{
		{0, nil},
		{4.9, nil},
		{5, intp(1)},
		{9.99, intp(1)},
		{10, intp(2)},
		{20, intp(3)},
		{49, intp(3)},
		{50, intp(4)},
		{500, intp(4)},
	}
	for _, tc := range cases {
		got := ResolveIntensity(cfg, tc.value)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("ResolveIntensity(%g)=%d, want nil", tc.value, *got)
		case tc.want != nil && got == nil:
			t.Fatalf("ResolveIntensity(%g)=nil, want %d", tc.value, *tc.want)
		case tc.want != nil && *got != *tc.want:
			t.Fatalf("ResolveIntensity(%g)=%d, want %d", tc.value, *got, *tc.want)
		}
	}
}

func TestResolveIntensityEqualThresholdsIgnoreInsertionOrder(t *testing.T) {
	cfg := &MetricConfig{Phases: []Phase{
		{Name: "B", Threshold: 10, Intensity: 2},
		{Name: "A", Threshold: 10, Intensity: 3},
		{Name: "Top", Threshold: 30, Intensity: 4},
	}}
	// Both 10-threshold rungs are met; the stable sort keeps the first
	// listed among equals, so B wins regardless of A being "better".
	if got := ResolveIntensity(cfg, 15); got == nil || *got != 2 {
		t.Fatalf("equal-threshold resolution=%v, want 2", got)
	}
	if got := ResolveIntensity(cfg, 30); got == nil || *got != 4 {
		t.Fatalf("highest threshold lost a tie it was not in: %v", got)
	}
}

func TestResolveIntensityHighestMetWinsOverFirstMet(t *testing.T) {
	cfg := &MetricConfig{Phases: []Phase{
		{Name: "Low", Threshold: 5, Intensity: 2},
		{Name: "High", Threshold: 10, Intensity: 3},
	}}
	// Both rungs are met at 12; the higher threshold must win even though
	// the lower one is listed first.
	if got := ResolveIntensity(cfg, 12); got == nil || *got != 3 {
		t.Fatalf("ResolveIntensity(12)=%v, want 3", got)
	}
}

func TestBuildPhaseScenario(t *testing.T) {
	cfg := &MetricConfig{Unit: "reps", Phases: []Phase{
		{Name: "Start", Threshold: 1, Intensity: 1},
		{Name: "Build", Threshold: 5, Intensity: 2},
		{Name: "High", Threshold: 10, Intensity: 3},
	}}
	if got := ResolveIntensity(cfg, 7); got == nil || *got != 2 {
		t.Fatalf("ResolveIntensity(7)=%v, want 2", got)
	}
	if got := PhaseName(cfg, 7); got != "Build" {
		t.Fatalf("PhaseName(7)=%q, want Build", got)
	}
}

func TestStoredIntensitySubThresholdPolicy(t *testing.T) {
	cfg := buildMetric()

	if got := StoredIntensity(cfg, 3); got == nil || *got != IntensityMin {
		t.Fatalf("positive sub-threshold value=%v, want minimal score %d", got, IntensityMin)
	}
	if got := StoredIntensity(cfg, 0); got != nil {
		t.Fatalf("zero value=%d, want unscored", *got)
	}
	if got := StoredIntensity(cfg, 20); got == nil || *got != 3 {
		t.Fatalf("in-ladder value=%v, want 3", got)
	}
	if got := StoredIntensity(nil, 7); got == nil || *got != IntensityMin {
		t.Fatalf("no ladder, positive value=%v, want minimal score", got)
	}
}

func TestPhaseName(t *testing.T) {
	cfg := buildMetric()
	if got := PhaseName(cfg, 25); got != "Solid" {
		t.Fatalf("PhaseName(25)=%q, want Solid", got)
	}
	if got := PhaseName(cfg, 1); got != "" {
		t.Fatalf("PhaseName sub-threshold=%q, want empty", got)
	}
	if got := PhaseName(nil, 100); got != "" {
		t.Fatalf("PhaseName without ladder=%q, want empty", got)
	}
}

package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

func newAddCmd() *cobra.Command {
	var color string
	var unit string
	var phases []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			metric, err := parseMetric(unit, phases)
			if err != nil {
				return err
			}
			t, err := sess.AddTask(ctx, engine.AddTaskInput{
				Name:   args[0],
				Color:  color,
				Metric: metric,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added: "+t.Name)+" "+ui.Muted.Render("("+t.ID+")"))
			if t.Metric != nil {
				for _, p := range t.Metric.Phases {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s ≥%g %s → intensity %d\n", ui.Key.Render(p.Name), p.Threshold, t.Metric.Unit, p.Intensity)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "Display color (hex or name)")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "Metric unit (enables value logging)")
	cmd.Flags().StringArrayVarP(&phases, "phase", "p", nil, "Metric phase as name:threshold:intensity (repeatable)")

	return cmd
}

// parseMetric turns repeated name:threshold:intensity flags into a ladder.
// No phases means no metric; phases without a unit still work, the unit is
// display-only.
func parseMetric(unit string, phases []string) (*engine.MetricConfig, error) {
	if len(phases) == 0 {
		if unit != "" {
			return nil, errors.New("--unit requires at least one --phase")
		}
		return nil, nil
	}
	cfg := &engine.MetricConfig{Unit: unit}
	for _, raw := range phases {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("phase %q: want name:threshold:intensity", raw)
		}
		threshold, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("phase %q: bad threshold: %w", raw, err)
		}
		intensity, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("phase %q: bad intensity: %w", raw, err)
		}
		cfg.Phases = append(cfg.Phases, engine.Phase{
			Name:      parts[0],
			Threshold: threshold,
			Intensity: intensity,
		})
	}
	return cfg, nil
}

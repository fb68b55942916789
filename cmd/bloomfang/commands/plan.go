// Package commands implements CLI command handlers for bloomfang.
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bloomfang/internal/config"
	"github.com/Sumatoshi-tech/bloomfang/internal/planview"
	"github.com/Sumatoshi-tech/bloomfang/pkg/bloom"
)

// Plan output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// ErrUnknownPlanFormat indicates an unsupported --format value.
var ErrUnknownPlanFormat = errors.New("unknown plan output format")

// configLoader resolves the effective configuration for a command run.
type configLoader func(configPath string) (*config.Config, error)

// PlanCommand holds configuration and dependencies for the plan command.
type PlanCommand struct {
	elements   uint64
	fpRate     float64
	scheme     string
	format     string
	plotPath   string
	configPath string

	loadConfig configLoader
}

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	return newPlanCommandWithDeps(config.LoadConfig)
}

func newPlanCommandWithDeps(loadConfig configLoader) *cobra.Command {
	pc := &PlanCommand{
		format:     FormatTable,
		loadConfig: loadConfig,
	}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute an optimal Bloom filter sizing plan",
		Long:  "Compute the optimal bit capacity and hash count for a target element count and false-positive rate.",
		Args:  cobra.NoArgs,
		RunE:  pc.run,
	}

	cmd.Flags().Uint64VarP(&pc.elements, "elements", "n", 0, "Expected element count (0 = config default)")
	cmd.Flags().Float64VarP(&pc.fpRate, "fp-rate", "p", 0, "Target false-positive rate in (0, 1) (0 = config default)")
	cmd.Flags().StringVar(&pc.scheme, "scheme", "", "Digest scheme: crypto, xxh3 (empty = config default)")
	cmd.Flags().StringVar(&pc.format, "format", FormatTable, "Output format: table, yaml")
	cmd.Flags().StringVar(&pc.plotPath, "plot", "", "Write the predicted false-positive curve to this HTML file")
	cmd.Flags().StringVar(&pc.configPath, "config", "", "Explicit config file path")

	return cmd
}

func (pc *PlanCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := pc.loadConfig(pc.configPath)
	if err != nil {
		return err
	}

	elements, fpRate, scheme := pc.resolveTargets(cfg)

	_, err = bloom.SchemeByName(scheme)
	if err != nil {
		return err
	}

	plan, err := planview.Compute(elements, fpRate, scheme)
	if err != nil {
		return err
	}

	switch pc.format {
	case FormatTable:
		planview.RenderTable(cmd.OutOrStdout(), plan)
	case FormatYAML:
		err = planview.RenderYAML(cmd.OutOrStdout(), plan)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q (use table or yaml)", ErrUnknownPlanFormat, pc.format)
	}

	if pc.plotPath != "" {
		return planview.WriteFPChart(pc.plotPath, plan)
	}

	return nil
}

// resolveTargets fills unset flags from the loaded configuration.
func (pc *PlanCommand) resolveTargets(cfg *config.Config) (elements uint64, fpRate float64, scheme string) {
	elements = pc.elements
	if elements == 0 {
		elements = cfg.Planner.Elements
	}

	fpRate = pc.fpRate
	if fpRate == 0 {
		fpRate = cfg.Planner.FPRate
	}

	scheme = pc.scheme
	if scheme == "" {
		scheme = cfg.Digest.Scheme
	}

	return elements, fpRate, scheme
}

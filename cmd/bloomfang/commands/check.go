package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bloomfang/internal/config"
	"github.com/Sumatoshi-tech/bloomfang/pkg/bloom"
)

// Verdict labels printed per query element.
const (
	verdictMaybe  = "maybe"
	verdictAbsent = "absent"
)

// ErrNoQueryElements indicates the check command was invoked without queries.
var ErrNoQueryElements = errors.New("at least one query element is required")

// CheckCommand holds configuration and dependencies for the check command.
type CheckCommand struct {
	addItems   []string
	addFile    string
	elements   uint64
	fpRate     float64
	capacity   uint
	hashCount  uint
	scheme     string
	noColor    bool
	configPath string

	loadConfig configLoader
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return newCheckCommandWithDeps(config.LoadConfig)
}

func newCheckCommandWithDeps(loadConfig configLoader) *cobra.Command {
	cc := &CheckCommand{loadConfig: loadConfig}

	cmd := &cobra.Command{
		Use:   "check [elements to query]",
		Short: "Build a filter from a corpus and probe membership",
		Long: "Build a Bloom filter, insert the corpus given by --add / --add-file, " +
			"and print a membership verdict for every query argument.",
		Args: cobra.ArbitraryArgs,
		RunE: cc.run,
	}

	cmd.Flags().StringSliceVar(&cc.addItems, "add", nil, "Corpus element to insert (repeatable)")
	cmd.Flags().StringVar(&cc.addFile, "add-file", "", "File with one corpus element per line")
	cmd.Flags().Uint64VarP(&cc.elements, "elements", "n", 0, "Expected element count for sizing (0 = config default)")
	cmd.Flags().Float64VarP(&cc.fpRate, "fp-rate", "p", 0, "Target false-positive rate for sizing (0 = config default)")
	cmd.Flags().UintVar(&cc.capacity, "capacity", 0, "Explicit bit capacity (with --hashes, overrides estimates)")
	cmd.Flags().UintVar(&cc.hashCount, "hashes", 0, "Explicit hash count (with --capacity, overrides estimates)")
	cmd.Flags().StringVar(&cc.scheme, "scheme", "", "Digest scheme: crypto, xxh3 (empty = config default)")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored verdict output")
	cmd.Flags().StringVar(&cc.configPath, "config", "", "Explicit config file path")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return ErrNoQueryElements
	}

	cfg, err := cc.loadConfig(cc.configPath)
	if err != nil {
		return err
	}

	color.NoColor = cc.noColor || cfg.Output.NoColor //nolint:reassign // intentional override of library global

	filter, err := cc.buildFilter(cfg)
	if err != nil {
		return err
	}

	corpus, err := cc.loadCorpus()
	if err != nil {
		return err
	}

	for _, item := range corpus {
		filter.AddString(item)
	}

	writer := cmd.OutOrStdout()

	for _, query := range args {
		if filter.TestString(query) {
			color.New(color.FgYellow).Fprintf(writer, "%-7s %s\n", verdictMaybe, query)
		} else {
			color.New(color.FgGreen).Fprintf(writer, "%-7s %s\n", verdictAbsent, query)
		}
	}

	fmt.Fprintf(writer, "\n%s\n", filter)
	fmt.Fprintf(writer, "estimated false-positive rate: %.4g\n", filter.EstimateFalsePositiveRate())

	return nil
}

// buildFilter constructs the probe filter from explicit geometry when given,
// and from sizing estimates otherwise. Core parameter errors surface
// unchanged.
func (cc *CheckCommand) buildFilter(cfg *config.Config) (*bloom.Filter, error) {
	schemeName := cc.scheme
	if schemeName == "" {
		schemeName = cfg.Digest.Scheme
	}

	scheme, err := bloom.SchemeByName(schemeName)
	if err != nil {
		return nil, err
	}

	if cc.capacity != 0 || cc.hashCount != 0 {
		return bloom.NewWithDigest(cc.capacity, cc.hashCount, scheme)
	}

	elements := cc.elements
	if elements == 0 {
		elements = cfg.Planner.Elements
	}

	fpRate := cc.fpRate
	if fpRate == 0 {
		fpRate = cfg.Planner.FPRate
	}

	capacity, err := bloom.OptimalM(uint(elements), fpRate)
	if err != nil {
		return nil, err
	}

	hashCount, err := bloom.OptimalK(capacity, uint(elements))
	if err != nil {
		return nil, err
	}

	return bloom.NewWithDigest(capacity, hashCount, scheme)
}

// loadCorpus collects corpus elements from the repeatable --add flag and the
// optional --add-file, one element per line, blank lines skipped.
func (cc *CheckCommand) loadCorpus() ([]string, error) {
	corpus := make([]string, 0, len(cc.addItems))
	corpus = append(corpus, cc.addItems...)

	if cc.addFile == "" {
		return corpus, nil
	}

	data, err := os.ReadFile(cc.addFile)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	for _, line := range strings.SplitAfter(string(data), "\n") {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			continue
		}

		corpus = append(corpus, trimmed)
	}

	return corpus, nil
}

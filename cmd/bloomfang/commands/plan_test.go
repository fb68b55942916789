package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bloomfang/internal/config"
	"github.com/Sumatoshi-tech/bloomfang/pkg/bloom"
)

const (
	testElements = uint64(1000)
	testFPRate   = 0.01
)

// stubConfigLoader returns a fixed in-memory configuration.
func stubConfigLoader(cfg config.Config) configLoader {
	return func(_ string) (*config.Config, error) {
		return &cfg, nil
	}
}

// defaultTestConfig builds the configuration used by command tests.
func defaultTestConfig() config.Config {
	return config.Config{
		Planner: config.PlannerConfig{
			Elements: testElements,
			FPRate:   testFPRate,
		},
		Digest: config.DigestConfig{Scheme: bloom.SchemeCrypto},
	}
}

// executePlan runs the plan command with the given args and returns stdout.
func executePlan(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()

	cmd := newPlanCommandWithDeps(stubConfigLoader(cfg))

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestPlanCommand_TableDefaults(t *testing.T) {
	t.Parallel()

	out, err := executePlan(t, defaultTestConfig())
	require.NoError(t, err)

	// n=1000 at 1% sizes to 9586 bits and 6 hashes.
	assert.Contains(t, out, "9,586 bits")
	assert.Contains(t, out, "Hash count")
	assert.Contains(t, out, "6")
	assert.Contains(t, out, "crypto")
}

func TestPlanCommand_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	out, err := executePlan(t, defaultTestConfig(),
		"--elements", "100000", "--fp-rate", "0.001", "--scheme", "xxh3")
	require.NoError(t, err)

	// n=100000 at 0.1% sizes to 1437759 bits.
	assert.Contains(t, out, "1,437,759 bits")
	assert.Contains(t, out, "xxh3")
}

func TestPlanCommand_YAMLFormat(t *testing.T) {
	t.Parallel()

	out, err := executePlan(t, defaultTestConfig(), "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "capacity_bits: 9586")
	assert.Contains(t, out, "hash_count: 6")
	assert.Contains(t, out, "scheme: crypto")
}

func TestPlanCommand_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := executePlan(t, defaultTestConfig(), "--format", "json")
	assert.ErrorIs(t, err, ErrUnknownPlanFormat)
}

func TestPlanCommand_InvalidRateSurfacesCoreError(t *testing.T) {
	t.Parallel()

	_, err := executePlan(t, defaultTestConfig(), "--fp-rate", "1.5")
	assert.ErrorIs(t, err, bloom.ErrInvalidParameter)
}

func TestPlanCommand_UnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := executePlan(t, defaultTestConfig(), "--scheme", "md4")
	assert.ErrorIs(t, err, bloom.ErrInvalidParameter)
}

func TestPlanCommand_PlotWritesChart(t *testing.T) {
	t.Parallel()

	plotPath := filepath.Join(t.TempDir(), "curve.html")

	_, err := executePlan(t, defaultTestConfig(), "--plot", plotPath)
	require.NoError(t, err)

	data, readErr := os.ReadFile(plotPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "echarts")
}

func TestPlanCommand_PlotUnwritablePath(t *testing.T) {
	t.Parallel()

	plotPath := filepath.Join(t.TempDir(), "no-such-dir", "curve.html")

	_, err := executePlan(t, defaultTestConfig(), "--plot", plotPath)
	assert.Error(t, err)
}

func TestPlanCommand_ConfigLoadFailurePropagates(t *testing.T) {
	t.Parallel()

	failingLoader := func(_ string) (*config.Config, error) {
		return nil, config.ErrInvalidPlannerFPRate
	}

	cmd := newPlanCommandWithDeps(failingLoader)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrInvalidPlannerFPRate)
}

func TestPlanCommand_RejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	cmd := newPlanCommandWithDeps(stubConfigLoader(defaultTestConfig()))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"unexpected"})

	err := cmd.Execute()
	assert.Error(t, err)
}

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

const corpusFilePerm = 0o600

// executeCheck runs the check command with the given args and returns stdout.
// Color is disabled so verdict lines compare as plain text. These tests stay
// sequential because the command writes the color.NoColor process global.
func executeCheck(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()

	cmd := newCheckCommandWithDeps(stubConfigLoader(cfg))

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestCheckCommand_RequiresQueryArguments(t *testing.T) {
	_, err := executeCheck(t, defaultTestConfig(), "--add", "hello")
	assert.ErrorIs(t, err, ErrNoQueryElements)
}

func TestCheckCommand_VerdictsForCorpusAndStrangers(t *testing.T) {
	out, err := executeCheck(t, defaultTestConfig(),
		"--add", "hello", "--add", "world",
		"hello", "world", "definitely_absent_xyz")
	require.NoError(t, err)

	assert.Contains(t, out, "maybe   hello")
	assert.Contains(t, out, "maybe   world")
	assert.Contains(t, out, "absent  definitely_absent_xyz")
}

func TestCheckCommand_EmptyCorpusAllAbsent(t *testing.T) {
	out, err := executeCheck(t, defaultTestConfig(), "alpha", "beta")
	require.NoError(t, err)

	assert.Contains(t, out, "absent  alpha")
	assert.Contains(t, out, "absent  beta")
	assert.NotContains(t, out, "maybe")
}

func TestCheckCommand_CorpusFile(t *testing.T) {
	corpusPath := filepath.Join(t.TempDir(), "corpus.txt")
	corpus := "alpha\nbeta\n\ngamma\n"
	require.NoError(t, os.WriteFile(corpusPath, []byte(corpus), corpusFilePerm))

	out, err := executeCheck(t, defaultTestConfig(),
		"--add-file", corpusPath,
		"alpha", "beta", "gamma")
	require.NoError(t, err)

	assert.Contains(t, out, "maybe   alpha")
	assert.Contains(t, out, "maybe   beta")
	assert.Contains(t, out, "maybe   gamma")
}

func TestCheckCommand_MissingCorpusFile(t *testing.T) {
	_, err := executeCheck(t, defaultTestConfig(),
		"--add-file", filepath.Join(t.TempDir(), "missing.txt"),
		"alpha")
	assert.Error(t, err)
}

func TestCheckCommand_SummaryLine(t *testing.T) {
	out, err := executeCheck(t, defaultTestConfig(), "--add", "hello", "hello")
	require.NoError(t, err)

	assert.Contains(t, out, "BloomFilter(capacity=9586, hashes=6, inserted=1")
	assert.Contains(t, out, "estimated false-positive rate:")
}

func TestCheckCommand_ExplicitGeometry(t *testing.T) {
	out, err := executeCheck(t, defaultTestConfig(),
		"--capacity", "1000", "--hashes", "5",
		"--add", "hello", "hello")
	require.NoError(t, err)

	assert.Contains(t, out, "maybe   hello")
	assert.Contains(t, out, "capacity=1000, hashes=5")
}

func TestCheckCommand_PartialGeometryRejected(t *testing.T) {
	_, err := executeCheck(t, defaultTestConfig(),
		"--capacity", "1000",
		"--add", "hello", "hello")
	assert.ErrorIs(t, err, bloom.ErrInvalidParameter)
}

func TestCheckCommand_XXH3Scheme(t *testing.T) {
	out, err := executeCheck(t, defaultTestConfig(),
		"--scheme", "xxh3",
		"--add", "hello", "hello", "stranger_qqq")
	require.NoError(t, err)

	assert.Contains(t, out, "maybe   hello")
	assert.Contains(t, out, "absent  stranger_qqq")
}

func TestCheckCommand_UnknownScheme(t *testing.T) {
	_, err := executeCheck(t, defaultTestConfig(), "--scheme", "crc32", "hello")
	assert.ErrorIs(t, err, bloom.ErrInvalidParameter)
}

func TestCheckCommand_InvalidRateSurfacesCoreError(t *testing.T) {
	_, err := executeCheck(t, defaultTestConfig(), "--fp-rate", "1.0", "hello")
	assert.ErrorIs(t, err, bloom.ErrInvalidParameter)
}

package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/ledger"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "settle-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "settle")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/settle")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSettle(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = t.TempDir()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := runSettle(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized settle project")

	for _, f := range []string{"settle.yaml", "transactions.csv", "obligations.csv"} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, "%s should exist", f)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettle(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "settle.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "strategy: greedy")
	assert.Contains(t, contents, "dp_max_participants: 7")

	cfg, err := config.Load(filepath.Join(dir, "settle.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_SampleLedgers(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettle(t, "init", dir)
	require.NoError(t, err)

	basic, err := ledger.LoadBasic(filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)
	assert.Len(t, basic, 5)

	adv, err := ledger.LoadAdvanced(filepath.Join(dir, "obligations.csv"))
	require.NoError(t, err)
	assert.Len(t, adv, 4)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettle(t, "init", dir)
	require.NoError(t, err)

	out, err := runSettle(t, "init", dir)
	require.Error(t, err, "second init should fail")
	assert.Contains(t, out, "already exists")

	_, err = runSettle(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_SimplifiesSample(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettle(t, "init", dir)
	require.NoError(t, err)

	out, err := runSettle(t, "simplify", filepath.Join(dir, "transactions.csv"), "--strategy", "cycle")
	require.NoError(t, err, out)
	assert.Contains(t, out, "cycle: 5 obligations settled by 2 transfers")
}

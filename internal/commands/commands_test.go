package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/commands"
	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/ledger"
	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/runlog"
	"github.com/cleared-dev/settle/internal/simplify"
)

// execute runs the root command in-process with dir/settle.yaml as config.
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, config.FileName)}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeBasic(t *testing.T, dir string, txs ...model.BasicTransaction) string {
	t.Helper()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, ledger.SaveBasic(path, txs))
	return path
}

func writeObligations(t *testing.T, dir string) string {
	t.Helper()
	mk := func(d, c string, amount model.Money) model.AdvancedTransaction {
		tx, err := model.NewAdvancedTransaction(d, c, amount,
			model.Date(2024, 1, 1), model.Date(2024, 6, 1), 0, 0,
			model.InterestSimple, model.PenaltyFixed)
		require.NoError(t, err)
		return tx
	}
	path := filepath.Join(dir, "obligations.csv")
	require.NoError(t, ledger.SaveAdvanced(path, []model.AdvancedTransaction{
		mk("A", "B", 10000),
		mk("B", "A", 4000),
	}))
	return path
}

func cycleLedger() []model.BasicTransaction {
	return []model.BasicTransaction{
		{Debtor: "A", Creditor: "B", Amount: 5000},
		{Debtor: "B", Creditor: "C", Amount: 5000},
		{Debtor: "C", Creditor: "A", Amount: 5000},
		{Debtor: "D", Creditor: "A", Amount: 2000},
	}
}

func TestSimplify_Strategies(t *testing.T) {
	for _, s := range simplify.All() {
		t.Run(s.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := writeBasic(t, dir, cycleLedger()...)

			stdout, stderr, err := execute(t, dir, "simplify", path, "--strategy", s.String())
			require.NoError(t, err, stderr)

			got, err := ledger.ReadBasic(strings.NewReader(stdout))
			require.NoError(t, err)
			assert.Equal(t, []model.BasicTransaction{{Debtor: "D", Creditor: "A", Amount: 2000}}, got)
			assert.Contains(t, stderr, "4 obligations settled by 1 transfers")
		})
	}
}

func TestSimplify_OutAndRunLog(t *testing.T) {
	dir := t.TempDir()
	path := writeBasic(t, dir, cycleLedger()...)
	outPath := filepath.Join(dir, "settled.csv")

	stdout, _, err := execute(t, dir, "simplify", path, "--out", outPath, "--log-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "greedy: 4 obligations settled by 1 transfers")

	got, err := ledger.LoadBasic(outPath)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "greedy", entries[0].Strategy)
	assert.Equal(t, "basic", entries[0].Mode)
	assert.Equal(t, "ledger.csv", entries[0].Input)
	assert.Equal(t, 4, entries[0].Obligations)
	assert.Equal(t, 1, entries[0].Settlements)
}

func TestSimplify_ConfigStrategy(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Engine.Strategy = "mcmf"
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))
	path := writeBasic(t, dir, cycleLedger()...)

	_, stderr, err := execute(t, dir, "simplify", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "mcmf:")
}

func TestSimplify_DPParticipantCap(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Engine.DPMaxParticipants = 3
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))
	path := writeBasic(t, dir,
		model.BasicTransaction{Debtor: "A", Creditor: "B", Amount: 100},
		model.BasicTransaction{Debtor: "C", Creditor: "D", Amount: 100},
	)

	_, _, err := execute(t, dir, "simplify", path, "--strategy", "dp")
	assert.ErrorContains(t, err, "too many participants")

	_, _, err = execute(t, dir, "simplify", path, "--strategy", "greedy")
	assert.NoError(t, err)
}

func TestSimplify_Advanced(t *testing.T) {
	dir := t.TempDir()
	path := writeObligations(t, dir)

	stdout, stderr, err := execute(t, dir, "simplify", path, "--advanced", "--strategy", "dp",
		"--as-of", "2024-03-01", "--log-dir", dir)
	require.NoError(t, err, stderr)

	got, err := ledger.ReadAdvanced(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Debtor)
	assert.Equal(t, "B", got[0].Creditor)
	assert.Equal(t, model.Money(6000), got[0].Amount)
	assert.Equal(t, model.Date(2024, 3, 1), got[0].BorrowDate)
	assert.Zero(t, got[0].InterestRate)

	assert.Contains(t, stderr, "total_cost: 60.00")
	assert.Contains(t, stderr, "total_transactions: 1.00")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "advanced", entries[0].Mode)
	assert.Equal(t, "dp", entries[0].Strategy)
}

func TestSimplify_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeBasic(t, dir, cycleLedger()...)

	_, _, err := execute(t, dir, "simplify", path, "--strategy", "fastest")
	assert.ErrorIs(t, err, simplify.ErrUnknownStrategy)

	_, _, err = execute(t, dir, "simplify", filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "opening ledger")

	_, _, err = execute(t, dir, "simplify", path, "--advanced")
	assert.ErrorContains(t, err, "reading ledger CSV")

	_, _, err = execute(t, dir, "--log-format", "xml", "simplify", path)
	assert.ErrorContains(t, err, "creating logger")
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	path := writeObligations(t, dir)

	stdout, stderr, err := execute(t, dir, "analyze", path, "--as-of", "2024-03-01")
	require.NoError(t, err, stderr)

	for _, want := range []string{"2024-03-01", "140.00", "person", "A", "-60.00", "60.00", "2 obligations -> 1 transfers (50% fewer)"} {
		assert.Contains(t, stdout, want)
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()

	first, _, err := execute(t, dir, "generate", "--people", "4", "--count", "12", "--seed", "9")
	require.NoError(t, err)
	second, _, err := execute(t, dir, "generate", "--people", "4", "--count", "12", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	txs, err := ledger.ReadBasic(strings.NewReader(first))
	require.NoError(t, err)
	assert.Len(t, txs, 12)

	out := filepath.Join(dir, "generated.csv")
	_, _, err = execute(t, dir, "generate", "--advanced", "--count", "6", "--as-of", "2025-01-01", "--out", out)
	require.NoError(t, err)
	adv, err := ledger.LoadAdvanced(out)
	require.NoError(t, err)
	assert.Len(t, adv, 6)

	_, _, err = execute(t, dir, "generate", "--people", "1")
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Bench.Cases = []config.BenchCase{{People: 3, Transactions: 5}}
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	stdout, _, err := execute(t, dir, "bench", "--runs", "1")
	require.NoError(t, err)
	for _, s := range simplify.All() {
		assert.Contains(t, stdout, s.String())
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

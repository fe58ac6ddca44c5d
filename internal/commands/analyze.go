package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/advanced"
	"github.com/cleared-dev/settle/internal/ledger"
	"github.com/cleared-dev/settle/internal/logger"
	"github.com/cleared-dev/settle/internal/model"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var asOf, strategy string

	cmd := &cobra.Command{
		Use:   "analyze <obligations.csv>",
		Short: "Value dated obligations and preview the settlement plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, args[0], asOf, strategy)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date YYYY-MM-DD (default from config, then today)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy for the plan preview (default from config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, path, asOfFlag, strategyFlag string) error {
	s, err := a.strategy(strategyFlag)
	if err != nil {
		return err
	}
	asOf, err := a.asOf(asOfFlag)
	if err != nil {
		return err
	}
	txs, err := ledger.LoadAdvanced(path)
	if err != nil {
		return err
	}

	sim, err := advanced.New(s, txs, asOf,
		advanced.WithLogger(logger.FromContext(cmd.Context())),
		advanced.WithEngineOptions(a.cfg.EngineOptions()...),
	)
	if err != nil {
		return err
	}
	if err := a.checkDP(s, sim.Basic()); err != nil {
		return err
	}
	plan, err := sim.Plan()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	writeAnalysis(w, plan.Analysis)
	fmt.Fprintln(w, peopleTable(sim.People()))
	fmt.Fprintf(w, "%s %s: %d obligations -> %d transfers (%s%% fewer)\n",
		labelStyle.Render("Plan"), s, plan.OriginalCount, plan.SimplifiedCount, plan.ReductionPercentage)
	return nil
}

func writeAnalysis(w io.Writer, an advanced.Analysis) {
	lines := []struct {
		label string
		value string
	}{
		{"Evaluation date", an.EvaluationDate.Format(model.DateFormat)},
		{"Principal", an.TotalPrincipal.String()},
		{"Interest", an.TotalInterest.String()},
		{"Penalties", an.TotalPenalty.String()},
		{"Actual debt", an.TotalActualDebt.String()},
		{"Additional costs", fmt.Sprintf("%s (%s%%)", an.AdditionalCosts, an.AdditionalCostsPercentage)},
		{"Debtors / creditors", fmt.Sprintf("%d / %d", an.Debtors, an.Creditors)},
		{"Overdue", strconv.Itoa(an.OverdueTransactions)},
		{"Largest debt", an.MaxIndividualDebt.String()},
		{"Largest credit", an.MaxIndividualCredit.String()},
	}
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l.label)+1)
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(runewidth.FillRight(l.label+":", width)), l.value)
	}
}

func peopleTable(people []advanced.PersonSummary) string {
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{
			p.Name,
			p.Balance.String(),
			strconv.FormatFloat(p.Priority, 'f', 2, 64),
			strconv.Itoa(p.DebtCount),
			strconv.Itoa(p.CreditCount),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("person", "balance", "priority", "owes", "owed").
		Rows(rows...).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		String()
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/spf13/cobra"
)

var (
	reportFrom string
	reportTo   string
	reportAsOf string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run financial reports",
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial",
	Short: "Show trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		tb, err := c.TrialBalance(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		if err != nil {
			return err
		}

		printTrialBalance(tb)
		return nil
	},
}

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show profit and loss",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		pl, err := c.ProfitAndLoss(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		if err != nil {
			return err
		}

		printProfitAndLoss(pl)
		return nil
	},
}

var balanceSheetCmd = &cobra.Command{
	Use:   "balance-sheet",
	Short: "Show balance sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		bs, err := c.BalanceSheet(context.Background(), ledger.Date(reportAsOf))
		if err != nil {
			return err
		}

		printBalanceSheet(bs)
		return nil
	},
}

var receivablesCmd = &cobra.Command{
	Use:   "receivables",
	Short: "Show receivables by customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		ps, err := c.Receivables(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		if err != nil {
			return err
		}

		printPartnerSummary("RECEIVABLES", "INVOICED", ps)
		return nil
	},
}

var payablesCmd = &cobra.Command{
	Use:   "payables",
	Short: "Show payables by vendor",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		ps, err := c.Payables(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		if err != nil {
			return err
		}

		printPartnerSummary("PAYABLES", "BILLED", ps)
		return nil
	},
}

var salesByFlag string

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Show sales by customer or item",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		var (
			sr  *engine.SalesReport
			err error
		)
		switch salesByFlag {
		case "customer":
			sr, err = c.SalesByCustomer(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		case "item":
			sr, err = c.SalesByItem(context.Background(), ledger.Date(reportFrom), ledger.Date(reportTo))
		default:
			return fmt.Errorf("--by must be customer or item")
		}
		if err != nil {
			return err
		}

		printSalesReport(strings.ToUpper("SALES BY "+salesByFlag), sr)
		return nil
	},
}

func printTrialBalance(tb *engine.TrialBalance) {
	w := 100
	fmt.Println()
	fmt.Println(center("TRIAL BALANCE", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("  %-8s %-24s %11s %11s %11s %11s %11s %11s\n",
		"CODE", "NAME", "OPEN DR", "OPEN CR", "PERIOD DR", "PERIOD CR", "CLOSE DR", "CLOSE CR")
	for _, r := range tb.Rows {
		name := r.AccountName
		if len(name) > 22 {
			name = name[:22] + ".."
		}
		fmt.Printf("  %-8s %-24s %11s %11s %11s %11s %11s %11s\n",
			r.AccountCode, name,
			ledger.FormatAmount(r.OpeningDr), ledger.FormatAmount(r.OpeningCr),
			ledger.FormatAmount(r.PeriodDr), ledger.FormatAmount(r.PeriodCr),
			ledger.FormatAmount(r.ClosingDr), ledger.FormatAmount(r.ClosingCr))
	}

	t := tb.TotalRow
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	fmt.Printf("  %-33s %11s %11s %11s %11s %11s %11s\n", "TOTALS",
		ledger.FormatAmount(t.OpeningDr), ledger.FormatAmount(t.OpeningCr),
		ledger.FormatAmount(t.PeriodDr), ledger.FormatAmount(t.PeriodCr),
		ledger.FormatAmount(t.ClosingDr), ledger.FormatAmount(t.ClosingCr))

	if tb.Balanced {
		fmt.Println("\n  [BALANCED]")
	} else {
		fmt.Println("\n  [UNBALANCED!]")
	}
	for _, warn := range tb.Warnings {
		fmt.Printf("  ! %s\n", warn.Message)
	}
}

func printProfitAndLoss(pl *engine.ProfitAndLoss) {
	w := 70
	fmt.Println()
	fmt.Println(center("PROFIT & LOSS", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	printPnLSection("REVENUE", pl.Revenue, w)
	fmt.Printf("  %-*s%15s\n\n", w-19, "Total Revenue", ledger.FormatAmount(pl.TotalRevenue))

	printPnLSection("EXPENSES", pl.Expenses, w)
	fmt.Printf("  %-*s%15s\n\n", w-19, "Total Expenses", ledger.FormatAmount(pl.TotalExpense))

	label := "Net Profit"
	if pl.NetProfit.IsNegative() {
		label = "Net Loss"
	}
	fmt.Printf("  %s\n", strings.Repeat("═", w-4))
	fmt.Printf("  %-*s%15s\n", w-19, label, ledger.FormatSigned(pl.NetProfit))
}

func printPnLSection(title string, lines []engine.PnLLine, w int) {
	fmt.Printf("  %s\n", title)
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	for _, l := range lines {
		name := l.AccountName
		if len(name) > 36 {
			name = name[:34] + ".."
		}
		fmt.Printf("  %-8s %-*s%15s\n", l.AccountCode, w-28, name, ledger.FormatAmount(l.Amount))
	}
}

func printBalanceSheet(bs *engine.BalanceSheet) {
	w := 70
	fmt.Println()
	fmt.Println(center("BALANCE SHEET", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	if bs.AsOf != "" {
		fmt.Println(center("as of "+string(bs.AsOf), w))
	}
	fmt.Println()

	printBSSection(bs.Assets, w)
	printBSSection(bs.Liabilities, w)
	printBSSection(bs.Equity, w)

	fmt.Printf("  %s\n", strings.Repeat("═", w-4))
	fmt.Printf("  %-*s%15s\n", w-19, "Total Assets", ledger.FormatSigned(bs.TotalAssets))
	fmt.Printf("  %-*s%15s\n", w-19, "Total L + E", ledger.FormatSigned(bs.TotalLiabEquity))

	if bs.Balanced {
		fmt.Println("\n  [BALANCED]")
	} else {
		fmt.Println("\n  [UNBALANCED!]")
	}
}

func printBSSection(sec engine.BalanceSheetSection, w int) {
	fmt.Printf("  %s\n", strings.ToUpper(sec.Label))
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	for _, r := range sec.Rows {
		name := strings.Repeat("  ", r.Depth) + r.AccountName
		if len(name) > 38 {
			name = name[:36] + ".."
		}
		fmt.Printf("  %-8s %-*s%15s\n", r.AccountCode, w-28, name, ledger.FormatSigned(r.Balance))
	}
	fmt.Printf("  %-*s%15s\n\n", w-19, "Total "+sec.Label, ledger.FormatSigned(sec.Total))
}

func printPartnerSummary(title, docCol string, ps *engine.PartnerSummary) {
	w := 90
	fmt.Println()
	fmt.Println(center(title, w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("  %-30s %12s %12s %12s %14s\n", "PARTNER", docCol, "RETURNS", "PAID", "OUTSTANDING")
	for _, r := range ps.Rows {
		name := r.PartnerName
		if len(name) > 28 {
			name = name[:28] + ".."
		}
		fmt.Printf("  %-30s %12s %12s %12s %14s\n",
			name, ledger.FormatAmount(r.Invoiced), ledger.FormatAmount(r.Returns),
			ledger.FormatAmount(r.Paid), ledger.FormatSigned(r.Outstanding))
	}
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	fmt.Printf("  %-30s %12s %26s %14s\n", "TOTALS",
		ledger.FormatAmount(ps.TotalInvoiced), "", ledger.FormatSigned(ps.TotalOutstanding))
}

func printSalesReport(title string, sr *engine.SalesReport) {
	w := 80
	fmt.Println()
	fmt.Println(center(title, w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("  %-36s %10s %8s %14s\n", "NAME", "QTY", "DOCS", "TOTAL")
	for _, r := range sr.Rows {
		name := r.Name
		if len(name) > 34 {
			name = name[:34] + ".."
		}
		fmt.Printf("  %-36s %10s %8d %14s\n", name, r.Quantity.String(), r.Count, ledger.FormatAmount(r.Total))
	}
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	fmt.Printf("  %-36s %19s %14s\n", "GRAND TOTAL", "", ledger.FormatAmount(sr.GrandTotal))
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	pad := (w - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportFrom, "from", "", "Period start (YYYY-MM-DD)")
	reportCmd.PersistentFlags().StringVar(&reportTo, "to", "", "Period end (YYYY-MM-DD)")
	balanceSheetCmd.Flags().StringVar(&reportAsOf, "as-of", "", "Cutoff date, inclusive (YYYY-MM-DD)")
	salesCmd.Flags().StringVar(&salesByFlag, "by", "customer", "Group by customer or item")

	reportCmd.AddCommand(trialBalanceCmd)
	reportCmd.AddCommand(pnlCmd)
	reportCmd.AddCommand(balanceSheetCmd)
	reportCmd.AddCommand(receivablesCmd)
	reportCmd.AddCommand(payablesCmd)
	reportCmd.AddCommand(salesCmd)

	rootCmd.AddCommand(reportCmd)
}

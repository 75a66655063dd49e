package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/nav"
)

type reportLoadedMsg struct {
	tab  nav.ReportTab
	data any
	err  error
}

// reportsModel is the drilldown hub. The navigator tracks where the user is
// (summary, account ledger, or source document); left/right switch reports
// at the hub, enter drills down, esc unwinds one level.
type reportsModel struct {
	nav     *nav.Navigator
	tabIdx  int
	data    map[nav.ReportTab]any
	cursor  int
	loading bool
	err     error
	width   int
	height  int

	stmt      statementModel
	docDetail docDetailModel
}

func newReports() reportsModel {
	return reportsModel{
		nav:  nav.New(nav.AllTabs[0]),
		data: make(map[nav.ReportTab]any),
	}
}

func (m *reportsModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	tab := m.nav.Current().Tab
	return func() tea.Msg {
		data, err := loadReport(c, tab)
		return reportLoadedMsg{tab: tab, data: data, err: err}
	}
}

func loadReport(c *client.Client, tab nav.ReportTab) (any, error) {
	ctx := context.Background()
	switch tab {
	case nav.TabTrialBalance:
		return c.TrialBalance(ctx, "", "")
	case nav.TabLedgerSummary:
		return c.LedgerSummary(ctx, "", "")
	case nav.TabProfitAndLoss:
		return c.ProfitAndLoss(ctx, "", "")
	case nav.TabBalanceSheet:
		return c.BalanceSheet(ctx, "")
	case nav.TabReceivables:
		return c.Receivables(ctx, "", "")
	case nav.TabPayables:
		return c.Payables(ctx, "", "")
	case nav.TabSalesByCustomer:
		return c.SalesByCustomer(ctx, "", "")
	case nav.TabSalesByItem:
		return c.SalesByItem(ctx, "", "")
	}
	return nil, fmt.Errorf("unknown report: %s", tab)
}

// drillRows returns the account IDs behind the current summary's rows, in
// display order. An empty ID marks a row that cannot be drilled into.
func (m *reportsModel) drillRows() []string {
	tab := m.nav.Current().Tab
	switch d := m.data[tab].(type) {
	case *engine.TrialBalance:
		ids := make([]string, len(d.Rows))
		for i, r := range d.Rows {
			ids[i] = r.AccountID
		}
		return ids
	case *engine.LedgerSummary:
		ids := make([]string, len(d.Rows))
		for i, r := range d.Rows {
			ids[i] = r.AccountID
		}
		return ids
	case *engine.ProfitAndLoss:
		var ids []string
		for _, l := range d.Revenue {
			ids = append(ids, l.AccountID)
		}
		for _, l := range d.Expenses {
			ids = append(ids, l.AccountID)
		}
		return ids
	case *engine.BalanceSheet:
		var ids []string
		for _, sec := range []engine.BalanceSheetSection{d.Assets, d.Liabilities, d.Equity} {
			for _, r := range sec.Rows {
				if r.IsGroup || r.AccountID == "" {
					ids = append(ids, "")
				} else {
					ids = append(ids, r.AccountID)
				}
			}
		}
		return ids
	}
	return nil
}

func (m reportsModel) update(msg tea.Msg, c *client.Client) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data[msg.tab] = msg.data
		}
		return m, nil

	case statementLoadedMsg:
		m.stmt, _ = m.stmt.update(msg)
		return m, nil

	case documentLoadedMsg:
		m.docDetail, _ = m.docDetail.update(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.nav.Current().Kind {
		case nav.KindSummary:
			return m.updateSummary(msg, c)
		case nav.KindLedger:
			return m.updateLedger(msg, c)
		case nav.KindSource:
			if key.Matches(msg, keys.Escape) {
				m.nav.Back()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m reportsModel) updateSummary(msg tea.KeyMsg, c *client.Client) (reportsModel, tea.Cmd) {
	rows := m.drillRows()
	switch {
	case key.Matches(msg, keys.Left):
		m.tabIdx = (m.tabIdx - 1 + len(nav.AllTabs)) % len(nav.AllTabs)
		m.nav.SwitchTab(nav.AllTabs[m.tabIdx])
		m.cursor = 0
		return m, m.init(c)
	case key.Matches(msg, keys.Right):
		m.tabIdx = (m.tabIdx + 1) % len(nav.AllTabs)
		m.nav.SwitchTab(nav.AllTabs[m.tabIdx])
		m.cursor = 0
		return m, m.init(c)
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.init(c)
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(rows) && rows[m.cursor] != "" {
			id := rows[m.cursor]
			m.nav.DrillLedger(id)
			m.stmt.width = m.width
			m.stmt.height = m.height
			return m, m.stmt.init(c, id, "", "")
		}
	}
	return m, nil
}

func (m reportsModel) updateLedger(msg tea.KeyMsg, c *client.Client) (reportsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.nav.Back()
		return m, nil
	case key.Matches(msg, keys.Enter):
		if ref, ok := m.stmt.selectedSource(); ok {
			m.nav.DrillSource(ref)
			m.docDetail.width = m.width
			return m, m.docDetail.init(c, ref)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.stmt, cmd = m.stmt.update(msg)
	return m, cmd
}

func (m *reportsModel) view() string {
	switch m.nav.Current().Kind {
	case nav.KindLedger:
		return m.stmt.view()
	case nav.KindSource:
		return m.docDetail.view()
	}
	return m.summaryView()
}

func (m *reportsModel) summaryView() string {
	var b strings.Builder

	// Report selector
	for i, tab := range nav.AllTabs {
		label := nav.Label(tab)
		if i == m.tabIdx {
			b.WriteString(selectedStyle.Render("[" + label + "]"))
		} else {
			b.WriteString(dimStyle.Render(" " + label + " "))
		}
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading report...")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		return b.String()
	}

	tab := m.nav.Current().Tab
	switch d := m.data[tab].(type) {
	case *engine.TrialBalance:
		b.WriteString(m.trialBalanceView(d))
	case *engine.LedgerSummary:
		b.WriteString(m.ledgerSummaryView(d))
	case *engine.ProfitAndLoss:
		b.WriteString(m.pnlView(d))
	case *engine.BalanceSheet:
		b.WriteString(m.balanceSheetView(d))
	case *engine.PartnerSummary:
		b.WriteString(m.partnerView(d, tab))
	case *engine.SalesReport:
		b.WriteString(m.salesView(d, tab))
	default:
		b.WriteString(dimStyle.Render("No data available."))
	}
	return b.String()
}

func (m *reportsModel) trialBalanceView(tb *engine.TrialBalance) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Trial Balance"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-8s %-26s %11s %11s %11s %11s %11s %11s",
		"CODE", "ACCOUNT", "OPEN DR", "OPEN CR", "PERIOD DR", "PERIOD CR", "CLOSE DR", "CLOSE CR")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, r := range tb.Rows {
		name := r.AccountName
		if len(name) > 24 {
			name = name[:24] + ".."
		}
		line := fmt.Sprintf("  %-8s %-26s %11s %11s %11s %11s %11s %11s",
			r.AccountCode, name,
			ledger.FormatAmount(r.OpeningDr), ledger.FormatAmount(r.OpeningCr),
			ledger.FormatAmount(r.PeriodDr), ledger.FormatAmount(r.PeriodCr),
			ledger.FormatAmount(r.ClosingDr), ledger.FormatAmount(r.ClosingCr))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	t := tb.TotalRow
	b.WriteString(fmt.Sprintf("\n  %-35s %11s %11s %11s %11s %11s %11s\n",
		"TOTALS",
		ledger.FormatAmount(t.OpeningDr), ledger.FormatAmount(t.OpeningCr),
		ledger.FormatAmount(t.PeriodDr), ledger.FormatAmount(t.PeriodCr),
		ledger.FormatAmount(t.ClosingDr), ledger.FormatAmount(t.ClosingCr)))

	if tb.Balanced {
		b.WriteString(successStyle.Render("  [BALANCED]"))
	} else {
		b.WriteString(errorStyle.Render("  [UNBALANCED!]"))
	}
	for _, w := range tb.Warnings {
		b.WriteString("\n" + warnStyle.Render("  ! "+w.Message))
	}
	return b.String()
}

func (m *reportsModel) ledgerSummaryView(sum *engine.LedgerSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("General Ledger Summary"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-8s %-30s %-10s %12s %12s %14s", "CODE", "ACCOUNT", "TYPE", "DEBIT", "CREDIT", "NET CHANGE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, r := range sum.Rows {
		name := r.AccountName
		if len(name) > 28 {
			name = name[:28] + ".."
		}
		line := fmt.Sprintf("  %-8s %-30s %-10s %12s %12s %14s",
			r.AccountCode, name, r.Type,
			ledger.FormatAmount(r.Debit), ledger.FormatAmount(r.Credit), ledger.FormatSigned(r.NetChange))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %-51s %12s %12s\n",
		"TOTALS", ledger.FormatAmount(sum.TotalDebit), ledger.FormatAmount(sum.TotalCredit)))
	return b.String()
}

func (m *reportsModel) pnlView(pl *engine.ProfitAndLoss) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profit & Loss"))
	b.WriteString("\n")

	row := 0
	renderSection := func(title string, lines []engine.PnLLine) {
		b.WriteString("  " + headerStyle.Render(title) + "\n")
		if len(lines) == 0 {
			b.WriteString(dimStyle.Render("    (no movement)") + "\n")
		}
		for _, l := range lines {
			name := l.AccountName
			if len(name) > 36 {
				name = name[:36] + ".."
			}
			line := fmt.Sprintf("    %-8s %-38s %14s", l.AccountCode, name, ledger.FormatAmount(l.Amount))
			if row == m.cursor {
				b.WriteString(selectedStyle.Render(">   " + line[4:]))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
			row++
		}
	}

	renderSection("Revenue", pl.Revenue)
	b.WriteString(fmt.Sprintf("    %-47s %14s\n\n", "Total Revenue", ledger.FormatAmount(pl.TotalRevenue)))
	renderSection("Expenses", pl.Expenses)
	b.WriteString(fmt.Sprintf("    %-47s %14s\n\n", "Total Expenses", ledger.FormatAmount(pl.TotalExpense)))

	label := "Net Profit"
	style := successStyle
	if pl.NetProfit.IsNegative() {
		label = "Net Loss"
		style = errorStyle
	}
	b.WriteString(style.Render(fmt.Sprintf("    %-47s %14s", label, ledger.FormatSigned(pl.NetProfit))))
	return b.String()
}

func (m *reportsModel) balanceSheetView(bs *engine.BalanceSheet) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Balance Sheet"))
	b.WriteString("\n")

	row := 0
	renderSection := func(sec engine.BalanceSheetSection) {
		b.WriteString("  " + headerStyle.Render(sec.Label) + "\n")
		if len(sec.Rows) == 0 {
			b.WriteString(dimStyle.Render("    (no entries)") + "\n")
		}
		for _, r := range sec.Rows {
			indent := strings.Repeat("  ", r.Depth)
			name := indent + r.AccountName
			if len(name) > 40 {
				name = name[:40] + ".."
			}
			line := fmt.Sprintf("    %-8s %-42s %14s", r.AccountCode, name, ledger.FormatSigned(r.Balance))
			switch {
			case row == m.cursor && !r.IsGroup:
				b.WriteString(selectedStyle.Render(">   " + line[4:]))
			case r.IsGroup:
				b.WriteString(dimStyle.Render(line))
			default:
				b.WriteString(line)
			}
			b.WriteString("\n")
			row++
		}
		b.WriteString(fmt.Sprintf("    %-51s %14s\n\n", "Total "+sec.Label, ledger.FormatSigned(sec.Total)))
	}

	renderSection(bs.Assets)
	renderSection(bs.Liabilities)
	renderSection(bs.Equity)

	b.WriteString(fmt.Sprintf("    %s\n", strings.Repeat("═", 68)))
	b.WriteString(fmt.Sprintf("    %-51s %14s\n", "Total Assets", ledger.FormatSigned(bs.TotalAssets)))
	b.WriteString(fmt.Sprintf("    %-51s %14s\n", "Total Liabilities + Equity", ledger.FormatSigned(bs.TotalLiabEquity)))

	if bs.Balanced {
		b.WriteString(successStyle.Render("    [BALANCED]"))
	} else {
		b.WriteString(errorStyle.Render("    [UNBALANCED!]"))
	}
	return b.String()
}

func (m *reportsModel) partnerView(ps *engine.PartnerSummary, tab nav.ReportTab) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(nav.Label(tab)))
	b.WriteString("\n")

	docCol := "INVOICED"
	if tab == nav.TabPayables {
		docCol = "BILLED"
	}
	header := fmt.Sprintf("  %-30s %12s %12s %12s %14s", "PARTNER", docCol, "RETURNS", "PAID", "OUTSTANDING")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(ps.Rows) == 0 {
		b.WriteString(dimStyle.Render("  (no activity)") + "\n")
	}
	for _, r := range ps.Rows {
		name := r.PartnerName
		if len(name) > 28 {
			name = name[:28] + ".."
		}
		b.WriteString(fmt.Sprintf("  %-30s %12s %12s %12s %14s\n",
			name, ledger.FormatAmount(r.Invoiced), ledger.FormatAmount(r.Returns),
			ledger.FormatAmount(r.Paid), ledger.FormatSigned(r.Outstanding)))
	}

	b.WriteString(fmt.Sprintf("\n  %-30s %12s %38s ",
		"TOTALS", ledger.FormatAmount(ps.TotalInvoiced), ledger.FormatSigned(ps.TotalOutstanding)))
	return b.String()
}

func (m *reportsModel) salesView(sr *engine.SalesReport, tab nav.ReportTab) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(nav.Label(tab)))
	b.WriteString("\n")

	keyCol := "CUSTOMER"
	if tab == nav.TabSalesByItem {
		keyCol = "ITEM"
	}
	header := fmt.Sprintf("  %-34s %10s %8s %14s", keyCol, "QTY", "DOCS", "TOTAL")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(sr.Rows) == 0 {
		b.WriteString(dimStyle.Render("  (no sales)") + "\n")
	}
	for _, r := range sr.Rows {
		name := r.Name
		if len(name) > 32 {
			name = name[:32] + ".."
		}
		b.WriteString(fmt.Sprintf("  %-34s %10s %8d %14s\n",
			name, r.Quantity.String(), r.Count, ledger.FormatAmount(r.Total)))
	}

	b.WriteString(fmt.Sprintf("\n  %-34s %19s %14s\n", "GRAND TOTAL", "", ledger.FormatAmount(sr.GrandTotal)))
	return b.String()
}

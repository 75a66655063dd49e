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
)

type statementLoadedMsg struct {
	stmt *engine.Statement
	err  error
}

// statementModel renders one account's ledger: opening balance, dated lines
// with a running balance, and closing totals. The cursor selects a line for
// drilldown into its source document.
type statementModel struct {
	stmt    *engine.Statement
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *statementModel) init(c *client.Client, accountID string, from, to ledger.Date) tea.Cmd {
	m.loading = true
	m.cursor = 0
	m.stmt = nil
	return func() tea.Msg {
		stmt, err := c.GetAccountLedger(context.Background(), accountID, from, to)
		return statementLoadedMsg{stmt: stmt, err: err}
	}
}

func (m statementModel) update(msg tea.Msg) (statementModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statementLoadedMsg:
		m.loading = false
		m.stmt = msg.stmt
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.stmt != nil && m.cursor < len(m.stmt.Lines)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// selectedSource returns the source reference under the cursor, if any.
func (m *statementModel) selectedSource() (ledger.SourceRef, bool) {
	if m.stmt == nil || m.cursor < 0 || m.cursor >= len(m.stmt.Lines) {
		return ledger.SourceRef{}, false
	}
	return m.stmt.Lines[m.cursor].Source, true
}

func (m *statementModel) view() string {
	if m.loading {
		return "Loading ledger..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.stmt == nil {
		return dimStyle.Render("No data available.")
	}

	var b strings.Builder
	s := m.stmt

	b.WriteString(titleStyle.Render(fmt.Sprintf("Ledger: %s %s", s.AccountCode, s.AccountName)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + periodLabel(s.From, s.To)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-10s %-28s %-12s %12s %12s %14s", "DATE", "NARRATION", "REF", "DEBIT", "CREDIT", "BALANCE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %-10s %-28s %-12s %12s %12s %14s\n",
		"", "Opening balance", "", "", "", ledger.FormatSigned(s.OpeningBalance)))

	maxRows := m.height - 8
	if maxRows < 1 {
		maxRows = 15
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(s.Lines) && i < start+maxRows; i++ {
		l := s.Lines[i]
		narration := l.Narration
		if len(narration) > 26 {
			narration = narration[:26] + ".."
		}
		dr, cr := "", ""
		if !l.Debit.IsZero() {
			dr = ledger.FormatAmount(l.Debit)
		}
		if !l.Credit.IsZero() {
			cr = ledger.FormatAmount(l.Credit)
		}
		line := fmt.Sprintf("  %-10s %-28s %-12s %12s %12s %14s",
			l.Date, narration, l.Ref, dr, cr, ledger.FormatSigned(l.Balance))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %-53s %12s %12s\n",
		"Period totals", ledger.FormatAmount(s.TotalDebit), ledger.FormatAmount(s.TotalCredit)))
	b.WriteString(fmt.Sprintf("  %-53s %12s %12s %14s\n",
		"Closing balance", "", "", ledger.FormatSigned(s.ClosingBalance)))

	return b.String()
}

func periodLabel(from, to ledger.Date) string {
	switch {
	case from == "" && to == "":
		return "All dates"
	case from == "":
		return "Through " + string(to)
	case to == "":
		return "From " + string(from)
	default:
		return string(from) + " to " + string(to)
	}
}

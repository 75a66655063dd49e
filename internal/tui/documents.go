package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/store"
)

type documentsLoadedMsg struct {
	docs []store.DocumentSummary
	err  error
}

// kindFilters is the cycle order for the left/right kind filter; the empty
// first entry means all kinds.
var kindFilters = append([]ledger.SourceKind{""}, ledger.AllKinds...)

type documentListModel struct {
	docs      []store.DocumentSummary
	cursor    int
	kindIdx   int
	loading   bool
	err       error
	width     int
	height    int
}

func (m *documentListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	kind := kindFilters[m.kindIdx]
	return func() tea.Msg {
		docs, err := c.ListDocuments(context.Background(), kind, "", "")
		return documentsLoadedMsg{docs: docs, err: err}
	}
}

func (m documentListModel) update(msg tea.Msg, c *client.Client) (documentListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		m.loading = false
		m.docs = msg.docs
		m.err = msg.err
		if m.cursor >= len(m.docs) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.docs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left):
			m.kindIdx = (m.kindIdx - 1 + len(kindFilters)) % len(kindFilters)
			return m, m.init(c)
		case key.Matches(msg, keys.Right):
			m.kindIdx = (m.kindIdx + 1) % len(kindFilters)
			return m, m.init(c)
		}
	}
	return m, nil
}

// selectedRef returns the source reference under the cursor, if any.
func (m *documentListModel) selectedRef() (ledger.SourceRef, bool) {
	if m.cursor < 0 || m.cursor >= len(m.docs) {
		return ledger.SourceRef{}, false
	}
	d := m.docs[m.cursor]
	return ledger.SourceRef{Kind: d.Kind, ID: d.ID}, true
}

func (m *documentListModel) view() string {
	if m.loading {
		return "Loading documents..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	filterLabel := "All kinds"
	if k := kindFilters[m.kindIdx]; k != "" {
		filterLabel = kindLabel(k)
	}
	b.WriteString(titleStyle.Render("Documents"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Filter: " + filterLabel + "  (left/right to change)"))
	b.WriteString("\n\n")

	if len(m.docs) == 0 {
		b.WriteString(dimStyle.Render("  No documents. Press 't' to post a journal voucher."))
		return b.String()
	}

	header := fmt.Sprintf("  %-10s %-22s %-14s %-24s %12s", "DATE", "KIND", "REF", "PARTY", "TOTAL")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 6
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.docs) && i < start+maxRows; i++ {
		d := m.docs[i]
		party := d.Party
		if len(party) > 22 {
			party = party[:22] + ".."
		}
		line := fmt.Sprintf("  %-10s %-22s %-14s %-24s %12s",
			d.Date, kindLabel(d.Kind), d.Ref, party, ledger.FormatAmount(d.Total))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d documents", len(m.docs)))
	return b.String()
}

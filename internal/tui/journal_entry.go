package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
)

type jeStep int

const (
	jeStepDate jeStep = iota
	jeStepNarration
	jeStepLineAccount
	jeStepLineType
	jeStepLineAmount
	jeStepLineMore
	jeStepConfirm
)

type journalLine struct {
	accountID   string
	accountCode string
	isDebit     bool
	amount      decimal.Decimal
}

type accountsForJEMsg struct {
	accounts []ledger.Account
	err      error
}

type voucherCreatedMsg struct {
	ref      string
	warnings int
	err      error
}

// journalEntryModel is the step-by-step form for posting a journal voucher:
// date, narration, then debit/credit lines until they balance.
type journalEntryModel struct {
	step      jeStep
	date      textinput.Model
	narration textinput.Model
	lines     []journalLine

	accountInput textinput.Model
	amountInput  textinput.Model
	isDebit      bool
	moreCursor   int // 0 = add another, 1 = done

	accounts []ledger.Account

	err       error
	done      bool
	cancelled bool
	statusMsg string
	width     int
}

func newJournalEntry() journalEntryModel {
	dateInput := textinput.New()
	dateInput.Placeholder = string(ledger.Today())
	dateInput.CharLimit = 10
	dateInput.Focus()

	narrInput := textinput.New()
	narrInput.Placeholder = "e.g. Owner capital introduced"
	narrInput.CharLimit = 100

	acctInput := textinput.New()
	acctInput.Placeholder = "account code, e.g. 1100"
	acctInput.CharLimit = 12

	amtInput := textinput.New()
	amtInput.Placeholder = "e.g. 500.00"
	amtInput.CharLimit = 20

	return journalEntryModel{
		step:         jeStepDate,
		date:         dateInput,
		narration:    narrInput,
		accountInput: acctInput,
		amountInput:  amtInput,
		isDebit:      true,
	}
}

func (m *journalEntryModel) loadAccounts(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		accounts, err := c.ListAccounts(context.Background(), "", true)
		return accountsForJEMsg{accounts: accounts, err: err}
	}
}

func (m journalEntryModel) update(msg tea.Msg, c *client.Client) (journalEntryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsForJEMsg:
		m.accounts = msg.accounts
		return m, nil

	case voucherCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = jeStepConfirm
			return m, nil
		}
		m.done = true
		m.statusMsg = fmt.Sprintf("Voucher %s posted", msg.ref)
		if msg.warnings > 0 {
			m.statusMsg += fmt.Sprintf(" with %d warning(s)", msg.warnings)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Escape) {
			m.cancelled = true
			return m, nil
		}

		switch m.step {
		case jeStepDate:
			return m.updateDate(msg)
		case jeStepNarration:
			return m.updateNarration(msg)
		case jeStepLineAccount:
			return m.updateLineAccount(msg)
		case jeStepLineType:
			return m.updateLineType(msg)
		case jeStepLineAmount:
			return m.updateLineAmount(msg)
		case jeStepLineMore:
			return m.updateLineMore(msg)
		case jeStepConfirm:
			return m.updateConfirm(msg, c)
		}
	}
	return m, nil
}

func (m journalEntryModel) updateDate(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if m.date.Value() == "" {
			m.date.SetValue(string(ledger.Today()))
		}
		if err := ledger.Date(m.date.Value()).Validate(); err != nil {
			m.err = fmt.Errorf("date must be YYYY-MM-DD")
			return m, nil
		}
		m.err = nil
		m.step = jeStepNarration
		m.narration.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.date, cmd = m.date.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateNarration(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if m.narration.Value() == "" {
			m.err = fmt.Errorf("narration is required")
			return m, nil
		}
		m.err = nil
		m.step = jeStepLineAccount
		m.accountInput.SetValue("")
		m.accountInput.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.narration, cmd = m.narration.Update(msg)
	return m, cmd
}

func (m *journalEntryModel) resolveAccount(code string) (*ledger.Account, bool) {
	for i := range m.accounts {
		if m.accounts[i].Code == code {
			return &m.accounts[i], true
		}
	}
	return nil, false
}

func (m journalEntryModel) updateLineAccount(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		code := m.accountInput.Value()
		if code == "" {
			m.err = fmt.Errorf("account code is required")
			return m, nil
		}
		if _, ok := m.resolveAccount(code); !ok {
			m.err = fmt.Errorf("no posting account with code %s", code)
			return m, nil
		}
		m.err = nil
		m.step = jeStepLineType
		m.isDebit = true
		return m, nil
	}
	var cmd tea.Cmd
	m.accountInput, cmd = m.accountInput.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateLineType(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		m.isDebit = !m.isDebit
	case key.Matches(msg, keys.Enter):
		m.err = nil
		m.step = jeStepLineAmount
		m.amountInput.SetValue("")
		m.amountInput.Focus()
	}
	return m, nil
}

func (m journalEntryModel) updateLineAmount(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		amt, err := ledger.ParseAmount(m.amountInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid amount: %v", err)
			return m, nil
		}
		acct, _ := m.resolveAccount(m.accountInput.Value())
		m.lines = append(m.lines, journalLine{
			accountID:   acct.ID,
			accountCode: acct.Code,
			isDebit:     m.isDebit,
			amount:      amt,
		})
		m.err = nil
		m.moreCursor = 0
		m.step = jeStepLineMore
		return m, nil
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateLineMore(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		m.moreCursor = 1 - m.moreCursor
	case key.Matches(msg, keys.Enter):
		if m.moreCursor == 0 {
			m.step = jeStepLineAccount
			m.accountInput.SetValue("")
			m.accountInput.Focus()
			m.isDebit = true
			m.err = nil
		} else {
			if len(m.lines) < 2 {
				m.err = fmt.Errorf("need at least 2 lines")
				m.moreCursor = 0
				return m, nil
			}
			if !m.imbalance().IsZero() {
				m.err = fmt.Errorf("lines do not balance")
				m.moreCursor = 0
				return m, nil
			}
			m.err = nil
			m.step = jeStepConfirm
		}
	}
	return m, nil
}

func (m journalEntryModel) updateConfirm(msg tea.KeyMsg, c *client.Client) (journalEntryModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		voucher := &ledger.JournalVoucher{
			Date:      ledger.Date(m.date.Value()),
			Narration: m.narration.Value(),
		}
		for _, l := range m.lines {
			jl := ledger.JournalLine{AccountID: l.accountID}
			if l.isDebit {
				jl.Debit = l.amount
			} else {
				jl.Credit = l.amount
			}
			voucher.Lines = append(voucher.Lines, jl)
		}
		return m, func() tea.Msg {
			res, err := c.CreateDocument(context.Background(), ledger.KindJournalVoucher, voucher)
			if err != nil {
				return voucherCreatedMsg{err: err}
			}
			created, _ := res.Document.(*ledger.JournalVoucher)
			ref := ""
			if created != nil {
				ref = created.Ref
			}
			return voucherCreatedMsg{ref: ref, warnings: len(res.Warnings)}
		}
	case "n", "N":
		m.cancelled = true
	}
	return m, nil
}

// imbalance is total debits minus total credits over the lines so far.
func (m *journalEntryModel) imbalance() decimal.Decimal {
	net := decimal.Zero
	for _, l := range m.lines {
		if l.isDebit {
			net = net.Add(l.amount)
		} else {
			net = net.Sub(l.amount)
		}
	}
	return net
}

func (m *journalEntryModel) balanceSummary() string {
	if len(m.lines) == 0 {
		return ""
	}
	totalDr, totalCr := decimal.Zero, decimal.Zero
	for _, l := range m.lines {
		if l.isDebit {
			totalDr = totalDr.Add(l.amount)
		} else {
			totalCr = totalCr.Add(l.amount)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  Debits:  %s\n", ledger.FormatAmount(totalDr)))
	b.WriteString(fmt.Sprintf("  Credits: %s\n", ledger.FormatAmount(totalCr)))

	net := m.imbalance()
	if net.IsZero() {
		b.WriteString(successStyle.Render("  BALANCED"))
	} else if net.IsPositive() {
		b.WriteString(errorStyle.Render("  UNBALANCED: over-debited by " + ledger.FormatAmount(net)))
	} else {
		b.WriteString(errorStyle.Render("  UNBALANCED: over-credited by " + ledger.FormatAmount(net.Neg())))
	}
	return b.String()
}

func (m *journalEntryModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Journal Voucher"))
	b.WriteString("\n\n")

	if len(m.lines) > 0 {
		b.WriteString(dimStyle.Render("  Lines so far:") + "\n")
		header := fmt.Sprintf("    %-4s %-10s %12s", "TYPE", "ACCOUNT", "AMOUNT")
		b.WriteString(dimStyle.Render(header) + "\n")
		for _, l := range m.lines {
			typ := "DR"
			style := debitStyle
			if !l.isDebit {
				typ = "CR"
				style = creditStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("    %-4s %-10s %12s", typ, l.accountCode, ledger.FormatAmount(l.amount))) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(m.balanceSummary())
		b.WriteString("\n\n")
	}

	switch m.step {
	case jeStepDate:
		b.WriteString("  Enter voucher date (YYYY-MM-DD, blank for today):\n\n")
		b.WriteString("  " + m.date.View() + "\n")

	case jeStepNarration:
		b.WriteString(fmt.Sprintf("  Date: %s\n", m.date.Value()))
		b.WriteString("  Enter narration:\n\n")
		b.WriteString("  " + m.narration.View() + "\n")

	case jeStepLineAccount:
		b.WriteString(fmt.Sprintf("  Line #%d — enter account code:\n\n", len(m.lines)+1))
		b.WriteString("  " + m.accountInput.View() + "\n")

		if len(m.accounts) > 0 {
			b.WriteString("\n" + dimStyle.Render("  Posting accounts:") + "\n")
			typed := m.accountInput.Value()
			shown := 0
			for _, a := range m.accounts {
				if typed != "" && !strings.HasPrefix(a.Code, typed) {
					continue
				}
				if shown >= 12 {
					b.WriteString(dimStyle.Render("    ...") + "\n")
					break
				}
				b.WriteString(dimStyle.Render(fmt.Sprintf("    %-8s %s", a.Code, a.Name)) + "\n")
				shown++
			}
		}

	case jeStepLineType:
		b.WriteString(fmt.Sprintf("  Account: %s\n", m.accountInput.Value()))
		b.WriteString("  Select line type:\n\n")
		if m.isDebit {
			b.WriteString(selectedStyle.Render("  > Debit (DR)") + "\n")
			b.WriteString("    Credit (CR)\n")
		} else {
			b.WriteString("    Debit (DR)\n")
			b.WriteString(selectedStyle.Render("  > Credit (CR)") + "\n")
		}

	case jeStepLineAmount:
		typ := "Debit"
		if !m.isDebit {
			typ = "Credit"
		}
		b.WriteString(fmt.Sprintf("  Account: %s | Type: %s\n", m.accountInput.Value(), typ))
		b.WriteString("  Enter amount:\n\n")
		b.WriteString("  " + m.amountInput.View() + "\n")

	case jeStepLineMore:
		options := []string{"Add another line", "Done — review and post"}
		if len(m.lines) < 2 {
			options[1] = "Done (need at least 2 lines)"
		} else if !m.imbalance().IsZero() {
			options[1] = "Done (lines must balance first)"
		}

		b.WriteString("  What next?\n\n")
		for i, opt := range options {
			if i == m.moreCursor {
				b.WriteString(selectedStyle.Render("  > "+opt) + "\n")
			} else {
				b.WriteString(fmt.Sprintf("    %s\n", opt))
			}
		}

	case jeStepConfirm:
		var summary strings.Builder
		summary.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), m.date.Value()))
		summary.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Narration:"), m.narration.Value()))
		summary.WriteString(fmt.Sprintf("%-4s %-10s %12s\n", "TYPE", "ACCOUNT", "AMOUNT"))
		for _, l := range m.lines {
			typ := "DR"
			if !l.isDebit {
				typ = "CR"
			}
			summary.WriteString(fmt.Sprintf("%-4s %-10s %12s\n", typ, l.accountCode, ledger.FormatAmount(l.amount)))
		}

		b.WriteString("  Review journal voucher:\n\n")
		b.WriteString(boxStyle.Render(summary.String()))
		b.WriteString("\n\n")
		b.WriteString("  Post this voucher? (y/n)\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  Error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("  ESC to cancel"))
	return b.String()
}

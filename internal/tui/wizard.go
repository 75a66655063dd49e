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

type wizardStep int

const (
	stepType wizardStep = iota
	stepSubType
	stepCode
	stepName
	stepOpening
	stepConfirm
)

// subTypeOptions lists the selectable sub types per account type; the empty
// first entry means no sub type.
var subTypeOptions = map[ledger.AccountType][]ledger.SubType{
	ledger.TypeAsset:     {"", ledger.SubCash, ledger.SubBank, ledger.SubReceivable, ledger.SubInventory, ledger.SubFixedAsset},
	ledger.TypeLiability: {"", ledger.SubPayable, ledger.SubTax},
	ledger.TypeEquity:    {"", ledger.SubCapital},
	ledger.TypeRevenue:   {"", ledger.SubSales, ledger.SubOtherInc},
	ledger.TypeExpense:   {"", ledger.SubCOGS, ledger.SubOperating},
}

type accountCreatedMsg struct {
	account *ledger.Account
	err     error
}

type wizardModel struct {
	step      wizardStep
	typ       ledger.AccountType
	typCursor int
	subTypes  []ledger.SubType
	subCursor int
	code      textinput.Model
	name      textinput.Model
	opening   textinput.Model

	err       error
	done      bool
	cancelled bool
	statusMsg string
	width     int
}

func newWizard() wizardModel {
	codeInput := textinput.New()
	codeInput.Placeholder = "blank = auto"
	codeInput.CharLimit = 12

	nameInput := textinput.New()
	nameInput.Placeholder = "e.g. Petty Cash"
	nameInput.CharLimit = 60

	openInput := textinput.New()
	openInput.Placeholder = "0.00"
	openInput.CharLimit = 20

	return wizardModel{
		step:    stepType,
		code:    codeInput,
		name:    nameInput,
		opening: openInput,
	}
}

func (m wizardModel) update(msg tea.Msg, c *client.Client) (wizardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepConfirm
			return m, nil
		}
		m.done = true
		m.statusMsg = fmt.Sprintf("Account %s %s created", msg.account.Code, msg.account.Name)
		return m, nil

	case tea.KeyMsg:
		// ESC cancels at any step
		if key.Matches(msg, keys.Escape) {
			m.cancelled = true
			return m, nil
		}

		switch m.step {
		case stepType:
			return m.updateType(msg)
		case stepSubType:
			return m.updateSubType(msg)
		case stepCode:
			return m.updateCode(msg)
		case stepName:
			return m.updateName(msg)
		case stepOpening:
			return m.updateOpening(msg)
		case stepConfirm:
			return m.updateConfirm(msg, c)
		}
	}
	return m, nil
}

func (m wizardModel) updateType(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.typCursor > 0 {
			m.typCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.typCursor < len(ledger.AllTypes)-1 {
			m.typCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.typ = ledger.AllTypes[m.typCursor]
		m.subTypes = subTypeOptions[m.typ]
		m.subCursor = 0
		m.step = stepSubType
		m.err = nil
	}
	return m, nil
}

func (m wizardModel) updateSubType(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.subCursor > 0 {
			m.subCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.subCursor < len(m.subTypes)-1 {
			m.subCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.step = stepCode
		m.code.Focus()
		m.err = nil
	}
	return m, nil
}

func (m wizardModel) updateCode(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		m.err = nil
		m.step = stepName
		m.name.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

func (m wizardModel) updateName(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if m.name.Value() == "" {
			m.err = fmt.Errorf("name is required")
			return m, nil
		}
		m.err = nil
		m.step = stepOpening
		m.opening.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m wizardModel) updateOpening(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if v := m.opening.Value(); v != "" {
			if _, err := ledger.ParseAmount(v); err != nil {
				m.err = fmt.Errorf("invalid amount: %v", err)
				return m, nil
			}
		}
		m.err = nil
		m.step = stepConfirm
		return m, nil
	}
	var cmd tea.Cmd
	m.opening, cmd = m.opening.Update(msg)
	return m, cmd
}

func (m wizardModel) updateConfirm(msg tea.KeyMsg, c *client.Client) (wizardModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		opening := decimal.Zero
		if v := m.opening.Value(); v != "" {
			opening, _ = ledger.ParseAmount(v)
		}
		acct := &ledger.Account{
			Code:           m.code.Value(),
			Name:           m.name.Value(),
			Type:           m.typ,
			SubType:        m.subTypes[m.subCursor],
			OpeningBalance: opening,
			IsPosting:      true,
		}
		return m, func() tea.Msg {
			created, err := c.CreateAccount(context.Background(), acct)
			return accountCreatedMsg{account: created, err: err}
		}
	case "n", "N":
		m.cancelled = true
	}
	return m, nil
}

func (m *wizardModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Account"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Step %d of %d", int(m.step)+1, int(stepConfirm)+1)))
	b.WriteString("\n\n")

	switch m.step {
	case stepType:
		b.WriteString("  Select account type:\n\n")
		for i, t := range ledger.AllTypes {
			desc := fmt.Sprintf("%s (codes %d+)", ledger.TypeLabel(t), t.BaseCode())
			if i == m.typCursor {
				b.WriteString(selectedStyle.Render("  > "+desc) + "\n")
			} else {
				b.WriteString(fmt.Sprintf("    %s\n", desc))
			}
		}

	case stepSubType:
		b.WriteString(fmt.Sprintf("  Type: %s\n", ledger.TypeLabel(m.typ)))
		b.WriteString("  Select sub type:\n\n")
		for i, st := range m.subTypes {
			label := string(st)
			if label == "" {
				label = "(none)"
			}
			if i == m.subCursor {
				b.WriteString(selectedStyle.Render("  > "+label) + "\n")
			} else {
				b.WriteString(fmt.Sprintf("    %s\n", label))
			}
		}

	case stepCode:
		b.WriteString(fmt.Sprintf("  Type: %s\n", ledger.TypeLabel(m.typ)))
		b.WriteString("  Enter account code (blank to auto-assign):\n\n")
		b.WriteString("  " + m.code.View() + "\n")
		b.WriteString("\n" + dimStyle.Render("  Use a parent code plus suffix, e.g. 5100-3, for a child account") + "\n")

	case stepName:
		b.WriteString(fmt.Sprintf("  Type: %s | Code: %s\n", ledger.TypeLabel(m.typ), codeOrAuto(m.code.Value())))
		b.WriteString("  Enter account name:\n\n")
		b.WriteString("  " + m.name.View() + "\n")

	case stepOpening:
		b.WriteString(fmt.Sprintf("  %s | %s\n", codeOrAuto(m.code.Value()), m.name.Value()))
		b.WriteString("  Enter opening balance (blank for zero):\n\n")
		b.WriteString("  " + m.opening.View() + "\n")

	case stepConfirm:
		opening := m.opening.Value()
		if opening == "" {
			opening = "0.00"
		}
		sub := string(m.subTypes[m.subCursor])
		if sub == "" {
			sub = "(none)"
		}
		b.WriteString("  Review and confirm:\n\n")
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"%s %s\n%s %s\n%s %s\n%s %s\n%s %s",
			labelStyle.Render("Type:"), ledger.TypeLabel(m.typ),
			labelStyle.Render("Sub type:"), sub,
			labelStyle.Render("Code:"), codeOrAuto(m.code.Value()),
			labelStyle.Render("Name:"), m.name.Value(),
			labelStyle.Render("Opening:"), opening,
		)))
		b.WriteString("\n\n")
		b.WriteString("  Create this account? (y/n)\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  Error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("  ESC to cancel"))
	return b.String()
}

func codeOrAuto(code string) string {
	if code == "" {
		return "(auto)"
	}
	return code
}

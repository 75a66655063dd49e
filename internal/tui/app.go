package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/microbooks/microbooks/internal/client"
)

type mode int

const (
	modeAccounts mode = iota
	modeAccountLedger
	modeDocuments
	modeDocumentDetail
	modeReports
	modeWizard
	modeJournalEntry
)

var tabModes = []mode{modeAccounts, modeDocuments, modeReports}

func tabLabel(m mode) string {
	switch m {
	case modeAccounts:
		return "Accounts"
	case modeDocuments:
		return "Documents"
	case modeReports:
		return "Reports"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	err           error
	statusMsg     string

	accountList  accountListModel
	acctLedger   statementModel
	docList      documentListModel
	docDetail    docDetailModel
	reports      reportsModel
	wizard       wizardModel
	journalEntry journalEntryModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client:  c,
		mode:    modeAccounts,
		reports: newReports(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.accountList.init(a.client),
		a.docList.init(a.client),
		a.reports.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.accountList.width = msg.Width
		a.accountList.height = msg.Height - 6
		a.acctLedger.width = msg.Width
		a.acctLedger.height = msg.Height - 6
		a.docList.width = msg.Width
		a.docList.height = msg.Height - 6
		a.docDetail.width = msg.Width
		a.reports.width = msg.Width
		a.reports.height = msg.Height - 6
		a.wizard.width = msg.Width
		a.journalEntry.width = msg.Width
		return a, nil
	}

	// Route data-loaded messages to the owning sub-model. Init fires the
	// loads concurrently, so they can land while another tab is active.
	switch typedMsg := msg.(type) {
	case accountsLoadedMsg:
		var cmd tea.Cmd
		a.accountList, cmd = a.accountList.update(msg)
		return a, cmd
	case documentsLoadedMsg:
		var cmd tea.Cmd
		a.docList, cmd = a.docList.update(msg, a.client)
		return a, cmd
	case reportLoadedMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg, a.client)
		return a, cmd
	case statementLoadedMsg:
		var cmd tea.Cmd
		if a.mode == modeReports {
			a.reports, cmd = a.reports.update(msg, a.client)
		} else {
			a.acctLedger, cmd = a.acctLedger.update(msg)
		}
		return a, cmd
	case documentLoadedMsg:
		var cmd tea.Cmd
		if a.mode == modeReports {
			a.reports, cmd = a.reports.update(msg, a.client)
		} else {
			a.docDetail, cmd = a.docDetail.update(msg)
		}
		return a, cmd
	case accountDeleteConfirmedMsg:
		id := typedMsg.id
		return a, func() tea.Msg {
			err := a.client.DeleteAccount(context.Background(), id)
			return accountDeletedMsg{id: id, err: err}
		}
	case accountDeletedMsg:
		if typedMsg.err != nil {
			a.accountList, _ = a.accountList.update(msg)
			return a, nil
		}
		a.statusMsg = "Account deleted"
		return a, a.accountList.init(a.client)
	case accountsForJEMsg:
		var cmd tea.Cmd
		a.journalEntry, cmd = a.journalEntry.update(msg, a.client)
		return a, cmd
	case accountCreatedMsg:
		var cmd tea.Cmd
		a.wizard, cmd = a.wizard.update(msg, a.client)
		if a.wizard.done {
			a.mode = modeAccounts
			a.statusMsg = a.wizard.statusMsg
			return a, a.accountList.init(a.client)
		}
		return a, cmd
	case voucherCreatedMsg:
		var cmd tea.Cmd
		a.journalEntry, cmd = a.journalEntry.update(msg, a.client)
		if a.journalEntry.done {
			a.mode = modeDocuments
			a.statusMsg = a.journalEntry.statusMsg
			return a, a.docList.init(a.client)
		}
		return a, cmd
	}

	// Modal forms take every message while active.
	if a.mode == modeWizard {
		var cmd tea.Cmd
		a.wizard, cmd = a.wizard.update(msg, a.client)
		if a.wizard.cancelled {
			a.mode = modeAccounts
			a.statusMsg = "Account creation cancelled"
		}
		return a, cmd
	}

	if a.mode == modeJournalEntry {
		var cmd tea.Cmd
		a.journalEntry, cmd = a.journalEntry.update(msg, a.client)
		if a.journalEntry.cancelled {
			a.mode = modeDocuments
			a.statusMsg = "Voucher cancelled"
		}
		return a, cmd
	}

	// Inline delete confirm takes all keys directly.
	if a.mode == modeAccounts && a.accountList.confirmDelete {
		var cmd tea.Cmd
		a.accountList, cmd = a.accountList.update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			switch a.mode {
			case modeAccountLedger:
				a.mode = modeAccounts
				return a, nil
			case modeDocumentDetail:
				a.mode = modeDocuments
				return a, nil
			}

		case key.Matches(msg, keys.New):
			if a.mode == modeAccounts {
				a.mode = modeWizard
				a.wizard = newWizard()
				return a, nil
			}

		case key.Matches(msg, keys.NewDoc):
			if a.mode == modeDocuments {
				a.mode = modeJournalEntry
				a.journalEntry = newJournalEntry()
				return a, a.journalEntry.loadAccounts(a.client)
			}

		case key.Matches(msg, keys.Enter):
			switch a.mode {
			case modeAccounts:
				if id := a.accountList.selectedID(); id != "" {
					a.mode = modeAccountLedger
					return a, a.acctLedger.init(a.client, id, "", "")
				}
				return a, nil
			case modeDocuments:
				if ref, ok := a.docList.selectedRef(); ok {
					a.mode = modeDocumentDetail
					return a, a.docDetail.init(a.client, ref)
				}
				return a, nil
			}
		}
	}

	// Delegate to the active sub-model.
	var cmd tea.Cmd
	switch a.mode {
	case modeAccounts:
		a.accountList, cmd = a.accountList.update(msg)
	case modeAccountLedger:
		a.acctLedger, cmd = a.acctLedger.update(msg)
	case modeDocuments:
		a.docList, cmd = a.docList.update(msg, a.client)
	case modeDocumentDetail:
		a.docDetail, cmd = a.docDetail.update(msg)
	case modeReports:
		a.reports, cmd = a.reports.update(msg, a.client)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeAccounts:
		return a.accountList.init(a.client)
	case modeDocuments:
		return a.docList.init(a.client)
	case modeReports:
		return a.reports.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	tabs := ""
	modal := a.mode == modeWizard || a.mode == modeJournalEntry
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex && !modal {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeAccounts:
		content = a.accountList.view()
	case modeAccountLedger:
		content = a.acctLedger.view()
	case modeDocuments:
		content = a.docList.view()
	case modeDocumentDetail:
		content = a.docDetail.view()
	case modeReports:
		content = a.reports.view()
	case modeWizard:
		content = a.wizard.view()
	case modeJournalEntry:
		content = a.journalEntry.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	helpText := dimStyle.Render("tab:switch  enter:drill  esc:back  n:new account  t:new voucher  d:delete  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}

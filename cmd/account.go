package cmd

import (
	"context"
	"fmt"

	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the chart of accounts",
}

// account create
var (
	acctCreateCode    string
	acctCreateName    string
	acctCreateType    string
	acctCreateSubType string
	acctCreateParent  string
	acctCreateOpening string
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		opening := decimal.Zero
		if acctCreateOpening != "" {
			amt, err := ledger.ParseAmount(acctCreateOpening)
			if err != nil {
				return err
			}
			opening = amt
		}

		acct := &ledger.Account{
			Code:           acctCreateCode,
			Name:           acctCreateName,
			Type:           ledger.AccountType(acctCreateType),
			SubType:        ledger.SubType(acctCreateSubType),
			OpeningBalance: opening,
			ParentCode:     acctCreateParent,
			IsPosting:      true,
		}

		created, err := c.CreateAccount(context.Background(), acct)
		if err != nil {
			return err
		}

		fmt.Printf("Account created: %s %s (%s)\n", created.Code, created.Name, created.Type)
		return nil
	},
}

// account list
var acctListType string

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		accounts, err := c.ListAccounts(context.Background(), ledger.AccountType(acctListType), false)
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-8s %-32s %-10s %-12s %12s %s\n", "CODE", "NAME", "TYPE", "ROLE", "OPENING", "STATUS")
		fmt.Printf("%-8s %-32s %-10s %-12s %12s %s\n", "----", "----", "----", "----", "-------", "------")
		for _, a := range accounts {
			name := a.Name
			if !a.IsPosting {
				name += " *"
			}
			if len(name) > 30 {
				name = name[:30] + ".."
			}
			fmt.Printf("%-8s %-32s %-10s %-12s %12s %s\n",
				a.Code, name, a.Type, a.Role, ledger.FormatSigned(a.OpeningBalance), a.Status)
		}
		return nil
	},
}

// account get
var accountGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get account details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		acct, err := c.GetAccount(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", acct.ID)
		fmt.Printf("Code:     %s\n", acct.Code)
		fmt.Printf("Name:     %s\n", acct.Name)
		fmt.Printf("Type:     %s\n", acct.Type)
		if acct.SubType != "" {
			fmt.Printf("Sub type: %s\n", acct.SubType)
		}
		if acct.Role != "" {
			fmt.Printf("Role:     %s\n", acct.Role)
		}
		fmt.Printf("Opening:  %s\n", ledger.FormatSigned(acct.OpeningBalance))
		fmt.Printf("Status:   %s\n", acct.Status)
		fmt.Printf("Posting:  %v\n", acct.IsPosting)
		fmt.Printf("System:   %v\n", acct.IsSystem)
		fmt.Printf("Created:  %s\n", acct.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// account balance
var acctBalanceAsOf string

var accountBalanceCmd = &cobra.Command{
	Use:   "balance [id]",
	Short: "Get account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		bal, err := c.GetAccountBalance(context.Background(), args[0], ledger.Date(acctBalanceAsOf))
		if err != nil {
			return err
		}

		fmt.Printf("Account: %s\n", bal.AccountID)
		if bal.AsOf != "" {
			fmt.Printf("As of:   %s (exclusive)\n", bal.AsOf)
		}
		fmt.Printf("Balance: %s\n", bal.Formatted)
		return nil
	},
}

// account ledger
var (
	acctLedgerFrom string
	acctLedgerTo   string
)

var accountLedgerCmd = &cobra.Command{
	Use:   "ledger [id]",
	Short: "Show the account's ledger statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		stmt, err := c.GetAccountLedger(context.Background(), args[0],
			ledger.Date(acctLedgerFrom), ledger.Date(acctLedgerTo))
		if err != nil {
			return err
		}

		fmt.Printf("Ledger: %s %s\n\n", stmt.AccountCode, stmt.AccountName)
		fmt.Printf("%-10s %-30s %-14s %12s %12s %14s\n", "DATE", "NARRATION", "REF", "DEBIT", "CREDIT", "BALANCE")
		fmt.Printf("%-10s %-30s %-14s %12s %12s %14s\n",
			"", "Opening balance", "", "", "", ledger.FormatSigned(stmt.OpeningBalance))
		for _, l := range stmt.Lines {
			narration := l.Narration
			if len(narration) > 28 {
				narration = narration[:28] + ".."
			}
			dr, cr := "", ""
			if !l.Debit.IsZero() {
				dr = ledger.FormatAmount(l.Debit)
			}
			if !l.Credit.IsZero() {
				cr = ledger.FormatAmount(l.Credit)
			}
			fmt.Printf("%-10s %-30s %-14s %12s %12s %14s\n",
				l.Date, narration, l.Ref, dr, cr, ledger.FormatSigned(l.Balance))
		}
		fmt.Printf("\n%-56s %12s %12s\n", "Period totals",
			ledger.FormatAmount(stmt.TotalDebit), ledger.FormatAmount(stmt.TotalCredit))
		fmt.Printf("%-56s %12s %12s %14s\n", "Closing balance", "", "", ledger.FormatSigned(stmt.ClosingBalance))
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&acctCreateCode, "code", "", "Account code (blank to auto-assign)")
	accountCreateCmd.Flags().StringVar(&acctCreateName, "name", "", "Account name")
	accountCreateCmd.Flags().StringVar(&acctCreateType, "type", "", "Account type (asset, liability, equity, revenue, expense)")
	accountCreateCmd.Flags().StringVar(&acctCreateSubType, "sub-type", "", "Account sub type")
	accountCreateCmd.Flags().StringVar(&acctCreateParent, "parent", "", "Parent account code")
	accountCreateCmd.Flags().StringVar(&acctCreateOpening, "opening", "", "Opening balance")
	accountCreateCmd.MarkFlagRequired("name")
	accountCreateCmd.MarkFlagRequired("type")

	accountListCmd.Flags().StringVar(&acctListType, "type", "", "Filter by type")

	accountBalanceCmd.Flags().StringVar(&acctBalanceAsOf, "as-of", "", "Balance as of date, exclusive (YYYY-MM-DD)")

	accountLedgerCmd.Flags().StringVar(&acctLedgerFrom, "from", "", "Period start (YYYY-MM-DD)")
	accountLedgerCmd.Flags().StringVar(&acctLedgerTo, "to", "", "Period end (YYYY-MM-DD)")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountGetCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	accountCmd.AddCommand(accountLedgerCmd)

	rootCmd.AddCommand(accountCmd)
}

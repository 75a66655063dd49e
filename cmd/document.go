package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage source documents",
}

// document journal
var (
	journalDate      string
	journalNarration string
	journalLines     []string // format: "code:dr|cr:amount"
)

var documentJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Post a journal voucher",
	Long:  `Post a journal voucher with explicit debit/credit lines.\nEach --line is formatted as "code:dr|cr:amount" (e.g. "1100:dr:500.00")`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		// Resolve codes to account IDs through the chart.
		chart, err := c.GetChart(context.Background())
		if err != nil {
			return err
		}
		byCode := make(map[string]string, len(chart))
		for _, a := range chart {
			byCode[a.Code] = a.ID
		}

		voucher := &ledger.JournalVoucher{
			Date:      ledger.Date(journalDate),
			Narration: journalNarration,
		}
		if voucher.Date == "" {
			voucher.Date = ledger.Today()
		}

		for _, l := range journalLines {
			parts := strings.SplitN(l, ":", 3)
			if len(parts) != 3 {
				return fmt.Errorf("invalid line format %q, expected code:dr|cr:amount", l)
			}
			id, ok := byCode[parts[0]]
			if !ok {
				return fmt.Errorf("no account with code %q", parts[0])
			}
			amt, err := ledger.ParseAmount(parts[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q in line %q: %w", parts[2], l, err)
			}
			jl := ledger.JournalLine{AccountID: id}
			switch parts[1] {
			case "dr":
				jl.Debit = amt
			case "cr":
				jl.Credit = amt
			default:
				return fmt.Errorf("line %q: direction must be dr or cr", l)
			}
			voucher.Lines = append(voucher.Lines, jl)
		}

		res, err := c.CreateDocument(context.Background(), ledger.KindJournalVoucher, voucher)
		if err != nil {
			return err
		}
		created := res.Document.(*ledger.JournalVoucher)

		fmt.Printf("Journal voucher posted: %s\n", created.Ref)
		for _, w := range res.Warnings {
			fmt.Printf("warning: %s\n", w.Message)
		}
		return nil
	},
}

// document list
var (
	docListKind string
	docListFrom string
	docListTo   string
)

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		docs, err := c.ListDocuments(context.Background(),
			ledger.SourceKind(docListKind), ledger.Date(docListFrom), ledger.Date(docListTo))
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("No documents found.")
			return nil
		}

		fmt.Printf("%-10s %-22s %-14s %-26s %12s\n", "DATE", "KIND", "REF", "PARTY", "TOTAL")
		fmt.Printf("%-10s %-22s %-14s %-26s %12s\n", "----", "----", "---", "-----", "-----")
		for _, d := range docs {
			party := d.Party
			if len(party) > 24 {
				party = party[:24] + ".."
			}
			fmt.Printf("%-10s %-22s %-14s %-26s %12s\n",
				d.Date, d.Kind, d.Ref, party, ledger.FormatAmount(d.Total))
		}
		return nil
	},
}

// document get
var documentGetCmd = &cobra.Command{
	Use:   "get [kind] [id]",
	Short: "Get document details",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		kind := ledger.SourceKind(args[0])
		if !ledger.ValidKind(kind) {
			return fmt.Errorf("unknown document kind %q", args[0])
		}

		doc, err := c.GetDocument(context.Background(), ledger.SourceRef{Kind: kind, ID: args[1]})
		if err != nil {
			return err
		}

		printDocument(kind, doc)
		return nil
	},
}

func printDocument(kind ledger.SourceKind, doc any) {
	switch d := doc.(type) {
	case *ledger.Invoice:
		fmt.Printf("Invoice %s\nDate: %s\nCustomer: %s\n", d.Ref, d.Date, d.CustomerName)
		printLineItems(d.Items)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total))
	case *ledger.PurchaseBill:
		fmt.Printf("Purchase bill %s\nDate: %s\nVendor: %s\n", d.Ref, d.Date, d.VendorName)
		printLineItems(d.Items)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total))
	case *ledger.SalesReturn:
		fmt.Printf("Sales return %s\nDate: %s\nCustomer: %s\n", d.Ref, d.Date, d.CustomerName)
		printLineItems(d.Items)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total))
	case *ledger.PurchaseReturn:
		fmt.Printf("Purchase return %s\nDate: %s\nVendor: %s\n", d.Ref, d.Date, d.VendorName)
		printLineItems(d.Items)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total))
	case *ledger.JournalVoucher:
		fmt.Printf("Journal voucher %s\nDate: %s\nNarration: %s\n", d.Ref, d.Date, d.Narration)
		fmt.Printf("  %-4s %-38s %12s\n", "TYPE", "ACCOUNT", "AMOUNT")
		for _, l := range d.Lines {
			if !l.Debit.IsZero() {
				fmt.Printf("  %-4s %-38s %12s\n", "DR", l.AccountID, ledger.FormatAmount(l.Debit))
			} else {
				fmt.Printf("  %-4s %-38s %12s\n", "CR", l.AccountID, ledger.FormatAmount(l.Credit))
			}
		}
	case *ledger.CustomerPayment:
		fmt.Printf("Customer payment %s\nDate: %s\nCustomer: %s\nMethod: %s\nAmount: %s\n",
			d.Ref, d.Date, d.CustomerName, d.Method, ledger.FormatAmount(d.Amount))
	case *ledger.VendorPayment:
		fmt.Printf("Vendor payment %s\nDate: %s\nVendor: %s\nMethod: %s\nAmount: %s\n",
			d.Ref, d.Date, d.VendorName, d.Method, ledger.FormatAmount(d.Amount))
	case *ledger.CashVoucher:
		fmt.Printf("%s %s\nDate: %s\n", kind, d.Ref, d.Date)
		printVoucherEntries(d.Entries)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total()))
	case *ledger.BankVoucher:
		fmt.Printf("%s %s\nDate: %s\nBank account: %s\n", kind, d.Ref, d.Date, d.BankAccountID)
		printVoucherEntries(d.Entries)
		fmt.Printf("Total: %s\n", ledger.FormatAmount(d.Total()))
	}
}

func printLineItems(items []ledger.LineItem) {
	fmt.Printf("  %-30s %10s %12s %12s\n", "ITEM", "QTY", "PRICE", "AMOUNT")
	for _, it := range items {
		desc := it.Description
		if len(desc) > 28 {
			desc = desc[:28] + ".."
		}
		fmt.Printf("  %-30s %10s %12s %12s\n",
			desc, it.Quantity.String(), ledger.FormatAmount(it.Price), ledger.FormatAmount(it.Amount()))
	}
}

func printVoucherEntries(entries []ledger.VoucherEntry) {
	fmt.Printf("  %-38s %-24s %12s\n", "ACCOUNT", "NARRATION", "AMOUNT")
	for _, e := range entries {
		fmt.Printf("  %-38s %-24s %12s\n", e.AccountID, e.Narration, ledger.FormatAmount(e.Amount))
	}
}

func init() {
	documentJournalCmd.Flags().StringVar(&journalDate, "date", "", "Voucher date (YYYY-MM-DD, default today)")
	documentJournalCmd.Flags().StringVar(&journalNarration, "narration", "", "Voucher narration")
	documentJournalCmd.Flags().StringSliceVar(&journalLines, "line", nil, "Line in format code:dr|cr:amount (can be repeated)")
	documentJournalCmd.MarkFlagRequired("narration")
	documentJournalCmd.MarkFlagRequired("line")

	documentListCmd.Flags().StringVar(&docListKind, "kind", "", "Filter by document kind")
	documentListCmd.Flags().StringVar(&docListFrom, "from", "", "Period start (YYYY-MM-DD)")
	documentListCmd.Flags().StringVar(&docListTo, "to", "", "Period end (YYYY-MM-DD)")

	documentCmd.AddCommand(documentJournalCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)

	rootCmd.AddCommand(documentCmd)
}

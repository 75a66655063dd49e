package cmd

import (
	"context"
	"fmt"

	"github.com/microbooks/microbooks/internal/client"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data for a demo walkthrough",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)
		ctx := context.Background()

		chart, err := c.GetChart(ctx)
		if err != nil {
			return err
		}
		byCode := make(map[string]ledger.Account, len(chart))
		for _, a := range chart {
			byCode[a.Code] = a
		}
		id := func(code string) string { return byCode[code].ID }

		d := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }

		post := func(kind ledger.SourceKind, doc any) error {
			res, err := c.CreateDocument(ctx, kind, doc)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			for _, w := range res.Warnings {
				fmt.Printf("warning (%s): %s\n", kind, w.Message)
			}
			return nil
		}

		inv := &ledger.Invoice{
			Date:         "2026-08-03",
			CustomerID:   "CUST-ACME",
			CustomerName: "Acme Retail",
			Items: []ledger.LineItem{
				{ItemID: "WIDGET-A", Description: "Widget A", Quantity: d("10"), Price: d("45.00")},
				{ItemID: "WIDGET-B", Description: "Widget B", Quantity: d("4"), Price: d("120.00")},
			},
		}
		inv.Total = d("930.00")
		if err := post(ledger.KindInvoice, inv); err != nil {
			return err
		}

		bill := &ledger.PurchaseBill{
			Date:       "2026-08-05",
			VendorID:   "VEND-GLOBEX",
			VendorName: "Globex Supplies",
			Items: []ledger.LineItem{
				{ItemID: "RAW-1", Description: "Raw stock", Quantity: d("50"), Price: d("8.00")},
			},
		}
		bill.Total = d("400.00")
		if err := post(ledger.KindPurchaseBill, bill); err != nil {
			return err
		}

		sret := &ledger.SalesReturn{
			Date:         "2026-08-10",
			CustomerID:   "CUST-ACME",
			CustomerName: "Acme Retail",
			Items: []ledger.LineItem{
				{ItemID: "WIDGET-A", Description: "Widget A (damaged)", Quantity: d("2"), Price: d("45.00")},
			},
		}
		sret.Total = d("90.00")
		if err := post(ledger.KindSalesReturn, sret); err != nil {
			return err
		}

		pay := &ledger.CustomerPayment{
			Date:          "2026-08-14",
			CustomerID:    "CUST-ACME",
			CustomerName:  "Acme Retail",
			Amount:        d("500.00"),
			Method:        ledger.MethodBankTransfer,
			BankAccountID: id("1010"),
		}
		if err := post(ledger.KindCustomerPayment, pay); err != nil {
			return err
		}

		vpay := &ledger.VendorPayment{
			Date:       "2026-08-18",
			VendorID:   "VEND-GLOBEX",
			VendorName: "Globex Supplies",
			Amount:     d("400.00"),
			Method:     ledger.MethodCash,
		}
		if err := post(ledger.KindVendorPayment, vpay); err != nil {
			return err
		}

		rent := &ledger.BankVoucher{
			Date:          "2026-08-20",
			BankAccountID: id("1010"),
			Entries: []ledger.VoucherEntry{
				{AccountID: id("5100-1"), Narration: "Office rent, August", Amount: d("250.00")},
			},
		}
		if err := post(ledger.KindBankPayment, rent); err != nil {
			return err
		}

		sundry := &ledger.CashVoucher{
			Date: "2026-08-22",
			Entries: []ledger.VoucherEntry{
				{AccountID: id("4100"), Narration: "Scrap sale", Amount: d("35.00")},
			},
		}
		if err := post(ledger.KindCashReceipt, sundry); err != nil {
			return err
		}

		jv := &ledger.JournalVoucher{
			Date:      "2026-08-25",
			Narration: "Owner capital contribution",
			Lines: []ledger.JournalLine{
				{AccountID: id("1010"), Narration: "Deposit", Debit: d("1000.00")},
				{AccountID: id("3000"), Narration: "Capital", Credit: d("1000.00")},
			},
		}
		if err := post(ledger.KindJournalVoucher, jv); err != nil {
			return err
		}

		fmt.Println("Sample data loaded: 8 documents across August 2026.")
		fmt.Println("Try: microbooks report trial --from 2026-08-01 --to 2026-08-31")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

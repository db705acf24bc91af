package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/layout"
	"github.com/solobill/timebill/render"
	"github.com/solobill/timebill/render/pdf"
	"github.com/solobill/timebill/render/text"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create, list and export invoices",
}

var (
	flagInvNumber  string
	flagInvClient  string
	flagInvAddress string
	flagInvRate    float64
	flagInvAll     bool
	flagInvEntries []string
)

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from unbilled entries",
	Long: `Create an invoice from unbilled time entries. The selected entries
leave the unbilled pool; the invoice snapshot never changes afterwards.

The hourly rate defaults to the rate saved in settings.`,
	Example: `  # Bill everything that is currently unbilled
  timebill invoice create --number INV-001 --client "Acme Corp" --all

  # Bill specific entries at a one-off rate
  timebill invoice create --number INV-002 --client "Acme Corp" \
    --rate 120 --entry te_01h4... --entry te_01h5...`,
	Args: cobra.NoArgs,
	RunE: runInvoiceCreate,
}

var invoiceListFilter string

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceList,
}

var flagMarkUnpaid bool

var invoicePaidCmd = &cobra.Command{
	Use:   "paid <number|id>",
	Short: "Mark an invoice as paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicePaid,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show <number|id>",
	Short: "Print a plain-text preview of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShow,
}

var flagPDFOutput string

var invoicePDFCmd = &cobra.Command{
	Use:   "pdf <number|id>",
	Short: "Export an invoice as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicePDF,
}

func init() {
	invoiceCreateCmd.Flags().StringVar(&flagInvNumber, "number", "", "invoice number")
	invoiceCreateCmd.Flags().StringVar(&flagInvClient, "client", "", "client name")
	invoiceCreateCmd.Flags().StringVar(&flagInvAddress, "address", "", "client address (\\n separates lines)")
	invoiceCreateCmd.Flags().Float64Var(&flagInvRate, "rate", 0, "hourly rate (default from settings)")
	invoiceCreateCmd.Flags().BoolVar(&flagInvAll, "all", false, "bill all unbilled entries")
	invoiceCreateCmd.Flags().StringArrayVar(&flagInvEntries, "entry", nil, "entry id to bill (repeatable)")
	invoiceCreateCmd.MarkFlagRequired("number")
	invoiceCreateCmd.MarkFlagRequired("client")

	invoiceListCmd.Flags().StringVar(&invoiceListFilter, "filter", "all", "date filter: all, ytd, 30d or 90d")
	invoicePaidCmd.Flags().BoolVar(&flagMarkUnpaid, "unpaid", false, "mark as unpaid instead")
	invoicePDFCmd.Flags().StringVarP(&flagPDFOutput, "output", "o", "", "output file (default Invoice-<number>.pdf)")

	invoiceCmd.AddCommand(invoiceCreateCmd, invoiceListCmd, invoicePaidCmd, invoiceShowCmd, invoicePDFCmd)
	rootCmd.AddCommand(invoiceCmd)
}

func runInvoiceCreate(cmd *cobra.Command, _ []string) error {
	if flagInvAll == (len(flagInvEntries) > 0) {
		return fmt.Errorf("specify either --all or at least one --entry")
	}

	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()
	ctx := cmd.Context()

	rate := flagInvRate
	if rate == 0 {
		st, err := l.Settings(ctx)
		if err != nil {
			return err
		}
		rate = st.HourlyRate
	}
	if rate <= 0 {
		return fmt.Errorf("no hourly rate: pass --rate or save one with 'timebill settings set'")
	}

	var ids []id.ID
	if flagInvAll {
		entries, err := l.Unbilled(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	} else {
		for _, raw := range flagInvEntries {
			entryID, err := id.ParseTimeEntryID(raw)
			if err != nil {
				return fmt.Errorf("invalid entry id %q: %w", raw, err)
			}
			ids = append(ids, entryID)
		}
	}

	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
		Number:        flagInvNumber,
		ClientName:    flagInvClient,
		ClientAddress: flagInvAddress,
		EntryIDs:      ids,
		Rate:          timebill.FromFloat(rate, currency()),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created invoice %s: %d entries, %s hours, %s\n",
		inv.Number, len(inv.Items),
		timebill.FormatHours(inv.TotalHours),
		inv.Total(currency()).String())
	return nil
}

func runInvoiceList(cmd *cobra.Command, _ []string) error {
	opts, err := listOpts(invoiceListFilter)
	if err != nil {
		return err
	}

	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()

	invoices, err := l.Invoices(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		fmt.Println("No invoices.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tDATE\tCLIENT\tHOURS\tAMOUNT\tSTATUS")
	for _, inv := range invoices {
		status := "unpaid"
		if inv.IsPaid {
			status = "paid"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.Number, inv.Date.Format("2006-01-02"), inv.ClientName,
			timebill.FormatHours(inv.TotalHours),
			inv.Total(currency()).String(), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum := invoice.Summarize(invoices, currency())
	fmt.Printf("\n%d invoices, %s hours, %s billed (%s paid)\n",
		sum.Count, timebill.FormatHours(sum.TotalHours),
		sum.TotalBilled.String(), sum.TotalPaid.String())
	return nil
}

func runInvoicePaid(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()
	ctx := cmd.Context()

	inv, err := resolveInvoice(ctx, l, args[0])
	if err != nil {
		return err
	}

	updated, err := l.SetInvoicePaid(ctx, inv.ID, !flagMarkUnpaid)
	if err != nil {
		return err
	}

	status := "paid"
	if !updated.IsPaid {
		status = "unpaid"
	}
	fmt.Printf("Invoice %s marked %s.\n", updated.Number, status)
	return nil
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	return renderTo(cmd, args[0], text.New(), "")
}

func runInvoicePDF(cmd *cobra.Command, args []string) error {
	return renderTo(cmd, args[0], pdf.New(), flagPDFOutput)
}

// renderTo resolves the invoice and streams it through r. An empty
// output path means stdout for text and the conventional
// Invoice-<number> name for file formats.
func renderTo(cmd *cobra.Command, ref string, r render.Renderer, output string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()
	ctx := cmd.Context()

	inv, err := resolveInvoice(ctx, l, ref)
	if err != nil {
		return err
	}

	g := layout.A4()
	g.Currency = currency()

	if _, ok := r.(*text.Renderer); ok && output == "" {
		return l.RenderInvoice(ctx, inv.ID, g, r, os.Stdout)
	}

	if output == "" {
		output = render.Filename(inv, r)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := l.RenderInvoice(ctx, inv.ID, g, r, f); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}

// resolveInvoice accepts either an invoice id or an invoice number.
func resolveInvoice(ctx context.Context, l *timebill.Ledger, ref string) (*invoice.Invoice, error) {
	if invID, err := id.ParseInvoiceID(ref); err == nil {
		return l.Invoice(ctx, invID)
	}

	invoices, err := l.Invoices(ctx, invoice.AllTime())
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if inv.Number == ref {
			return inv, nil
		}
	}
	return nil, fmt.Errorf("invoice %q: %w", ref, timebill.ErrInvoiceNotFound)
}

func listOpts(filter string) (invoice.ListOpts, error) {
	now := time.Now().UTC()
	switch filter {
	case "all", "":
		return invoice.AllTime(), nil
	case "ytd":
		return invoice.YearToDate(now), nil
	case "30d":
		return invoice.LastNDays(now, 30), nil
	case "90d":
		return invoice.LastNDays(now, 90), nil
	default:
		return invoice.ListOpts{}, fmt.Errorf("unknown filter %q (want all, ytd, 30d or 90d)", filter)
	}
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	timebill "github.com/solobill/timebill"
)

var unbilledCmd = &cobra.Command{
	Use:   "unbilled",
	Short: "List time entries not yet billed",
	Args:  cobra.NoArgs,
	RunE:  runUnbilled,
}

func init() {
	rootCmd.AddCommand(unbilledCmd)
}

func runUnbilled(cmd *cobra.Command, _ []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()

	entries, err := l.Unbilled(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No unbilled entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tHOURS\tDESCRIPTION")
	total := 0.0
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format("2006-01-02"), timebill.FormatHours(e.Hours), e.Description)
		total += e.Hours
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d entries, %s hours total\n", len(entries), timebill.FormatHours(total))
	return nil
}

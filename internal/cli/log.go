package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/entry"
)

var flagLogDate string

var logCmd = &cobra.Command{
	Use:   "log <hours> <description>",
	Short: "Log billable time",
	Example: `  # Log two hours of design work for today
  timebill log 2 "Design work"

  # Log against a specific date
  timebill log 1.5 "Client call" --date 2026-03-02`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&flagLogDate, "date", "", "entry date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	hours, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid hours %q: %w", args[0], err)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if flagLogDate != "" {
		date, err = time.Parse("2006-01-02", flagLogDate)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", flagLogDate, err)
		}
	}

	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()

	e, err := l.LogTime(cmd.Context(), entry.Draft{
		Date:        date,
		Description: strings.Join(args[1:], " "),
		Hours:       hours,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged %s hours: %s (%s)\n",
		timebill.FormatHours(e.Hours), e.Description, e.ID)
	return nil
}

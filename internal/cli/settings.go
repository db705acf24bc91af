package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the sender profile used on invoices",
}

var (
	flagSetName    string
	flagSetAddress string
	flagSetRate    float64
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save name, address and hourly rate",
	Example: `  timebill settings set --name "Jane Doe" \
    --address "1 Main St\nSpringfield" --rate 100`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagSetName, "name", "", "sender name")
	settingsSetCmd.Flags().StringVar(&flagSetAddress, "address", "", "sender address (\\n separates lines)")
	settingsSetCmd.Flags().Float64Var(&flagSetRate, "rate", 0, "default hourly rate")

	settingsCmd.AddCommand(settingsSetCmd, settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()
	ctx := cmd.Context()

	// Unset flags keep their saved values.
	st, err := l.Settings(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("name") {
		st.Name = flagSetName
	}
	if cmd.Flags().Changed("address") {
		st.Address = flagSetAddress
	}
	if cmd.Flags().Changed("rate") {
		st.HourlyRate = flagSetRate
	}

	if err := l.SaveSettings(ctx, st); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Stop()

	st, err := l.Settings(cmd.Context())
	if err != nil {
		return err
	}
	if st.Name == "" && st.Address == "" && st.HourlyRate == 0 {
		fmt.Println("No settings saved yet. Run 'timebill settings set'.")
		return nil
	}

	fmt.Printf("Name:    %s\n", st.Name)
	fmt.Printf("Address: %s\n", st.Address)
	fmt.Printf("Rate:    %s/h\n", st.Rate(currency()).String())
	return nil
}

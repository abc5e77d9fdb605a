package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:     "send <id> [byte...]",
	Short:   "Send a single frame",
	Example: "canmon send 1A3 11 22",
	Args:    cobra.RangeArgs(1, 9),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := initBridge(ctx, cmd, bridgeOpts{})
		if err != nil {
			return err
		}
		defer b.Close()

		if _, err := b.Send(args[0], args[1:]...); err != nil {
			return err
		}
		for _, rec := range b.TX().Snapshot() {
			fmt.Printf("%s || %s\n", rec.Timestamp, rec.Frame.ColorString())
		}
		if st := b.Stats(); st.WriteErrors > 0 {
			return fmt.Errorf("frame was not written to %s", b.Port())
		}
		return nil
	},
}

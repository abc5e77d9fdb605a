package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print received frames, and the per identifier summary on exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		debug, err := cmd.Flags().GetBool(flagDebug)
		if err != nil {
			return err
		}
		b, err := initBridge(ctx, cmd, bridgeOpts{
			OnFrame: func(f frame.CANFrame, count int) {
				fmt.Printf("%s || %s || %d\n", time.Now().Format("15:04:05.000"), f.ColorString(), count)
			},
		})
		if err != nil {
			return err
		}
		defer b.Close()
		go logEvents(ctx, b, debug)

		select {
		case <-ctx.Done():
		case <-b.Done():
		}
		b.Close()

		fmt.Println()
		printTable(os.Stdout, b.RX().Snapshot())
		fmt.Println(b.Stats())
		return nil
	},
}

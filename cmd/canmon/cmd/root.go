package cmd

import (
	"context"
	"log"
	"time"

	"github.com/roffe/canbridge"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "canmon",
	Short:        "CAN monitor for serial CAN adapters",
	Long:         `Monitor received CAN frames per identifier and send frames through a line based serial CAN adapter`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagPort     = "port"
	flagBaudrate = "baudrate"
	flagDebug    = "debug"
	flagMatch    = "match"
	flagWait     = "wait"
	flagRefresh  = "refresh"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagPort, "p", "", "com-port, empty = auto detect, ? = select from list")
	pf.IntP(flagBaudrate, "b", canbridge.DefaultBaudrate, "baudrate")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.StringP(flagMatch, "m", canbridge.DefaultMatch, "auto detect the port whose USB product contains this")
	pf.UintP(flagWait, "w", 1, "number of attempts to find the adapter, one second apart")
	pf.Duration(flagRefresh, 500*time.Millisecond, "view refresh interval")
}

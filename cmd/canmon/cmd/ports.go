package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/roffe/canbridge"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		match, err := cmd.Flags().GetString(flagMatch)
		if err != nil {
			return err
		}
		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
			return nil
		}
		green := color.New(color.FgGreen).SprintFunc()
		for _, port := range ports {
			name := port.Name
			if canbridge.MatchPort(port, match) {
				name = green(name)
			}
			fmt.Printf("port: %s\n", name)
			if port.IsUSB {
				fmt.Printf("   USB ID      %s:%s\n", port.VID, port.PID)
				fmt.Printf("   USB serial  %s\n", port.SerialNumber)
				fmt.Printf("   Product     %s\n", port.Product)
			}
		}
		return nil
	},
}

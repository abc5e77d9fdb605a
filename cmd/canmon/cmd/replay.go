package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/roffe/canbridge/pkg/bar"
	"github.com/spf13/cobra"
)

const flagDelay = "delay"

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Duration(flagDelay, 10*time.Millisecond, "delay between frames")
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Send every frame listed in a file",
	Long: `Send frames read from a file, one frame per line in the form "<id> [byte...]".
Empty lines and lines starting with # are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		delay, err := cmd.Flags().GetDuration(flagDelay)
		if err != nil {
			return err
		}
		frames, err := readFrameFile(args[0])
		if err != nil {
			return err
		}

		b, err := initBridge(ctx, cmd, bridgeOpts{})
		if err != nil {
			return err
		}
		defer b.Close()

		pb := bar.New(len(frames), "sending")
		for _, fl := range frames {
			if _, err := b.Send(fl.fields[0], fl.fields[1:]...); err != nil {
				return fmt.Errorf("line %d: %w", fl.no, err)
			}
			pb.Add(1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		fmt.Println()
		fmt.Println(b.Stats())
		return nil
	},
}

type frameLine struct {
	no     int
	fields []string
}

func readFrameFile(filename string) ([]frameLine, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []frameLine
	sc := bufio.NewScanner(f)
	no := 0
	for sc.Scan() {
		no++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, frameLine{no: no, fields: strings.Fields(line)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return out, nil
}

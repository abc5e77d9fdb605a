package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/roffe/canbridge/pkg/webfeed"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const flagListen = "listen"

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP(flagListen, "l", ":8080", "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the RX table and TX log over HTTP and websocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gctx := cmd.Context()
		addr, err := cmd.Flags().GetString(flagListen)
		if err != nil {
			return err
		}
		refresh, err := cmd.Flags().GetDuration(flagRefresh)
		if err != nil {
			return err
		}
		debug, err := cmd.Flags().GetBool(flagDebug)
		if err != nil {
			return err
		}

		b, err := initBridge(gctx, cmd, bridgeOpts{Degraded: true})
		if err != nil {
			return err
		}
		defer b.Close()

		srv := &http.Server{
			Addr:    addr,
			Handler: webfeed.New(b, refresh),
		}
		srv.RegisterOnShutdown(func() {
			log.Print("shutting down server")
		})

		errg, ctx := errgroup.WithContext(gctx)
		errg.Go(func() error {
			logEvents(ctx, b, debug)
			return nil
		})
		errg.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		errg.Go(func() error {
			log.Printf("listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		return errg.Wait()
	},
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roffe/canbridge/cmd/canmon/cmd"
)

// shutdownTimeout bounds how long closing the adapter may take after ctrl-c
const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	stopFailsafe := context.AfterFunc(ctx, func() {
		log.Print("interrupted, closing adapter")
		time.AfterFunc(shutdownTimeout, func() {
			log.Fatal("took to long to shutdown, forcefully exiting")
		})
	})
	defer stopFailsafe()
	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

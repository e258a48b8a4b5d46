package main

import (
	"FileVault/config"
	"FileVault/internal/worker"
	"context"
	"log"
	"os/signal"
	"syscall"
)

// main runs the mail delivery worker.
func main() {
	config.InitConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.RunMailWorker(ctx); err != nil {
		log.Fatal("mail worker exited:", err)
	}
}

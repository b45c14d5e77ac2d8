package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"shortages/internal/config"
	"shortages/internal/listener"
	"shortages/internal/logging"
	"shortages/internal/pipeline"
	"shortages/internal/shortage"
	"shortages/internal/storage"
)

// mail-listener runs the mailbox import loop on its own, for use as a service.
func main() {
	cfg, err := config.Load()
	must(err)

	logger, err := logging.New(cfg)
	must(err)
	defer func() { _ = logger.Sync() }()

	policy, err := pipeline.ParseMergePolicy(cfg.MergePolicy)
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctrl := shortage.NewController(
		db.LoadSnapshot(cfg.StorageKey, uuid.NewString, logger),
		shortage.WithMergePolicy(policy),
		shortage.WithLogger(logger),
	)
	ctrl.OnChange(storage.NewSnapshotPersister(db, cfg.StorageKey).Persist)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := listener.MakeConnector(ctx, cfg, cfg.MailListenerProvider)
	must(err)

	must(listener.NewService(db, cfg, conn, ctrl, logger).Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

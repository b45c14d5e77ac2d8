package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shortages/internal/config"
	"shortages/internal/logging"
	"shortages/internal/pipeline"
	"shortages/internal/shortage"
	"shortages/internal/storage"
)

const emptyListNotice = "القائمة فارغة!"

// app is the per-invocation wiring shared by every command.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *storage.DB
	ctrl   *shortage.Controller

	filter string
	sortBy string
	desc   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shortages",
		Short:         "Pharmacy shortage list manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.filter, "filter", "", "show only items whose name or unit contains this text")
	root.PersistentFlags().StringVar(&a.sortBy, "sort", "", "sort by name|unit|quantity")
	root.PersistentFlags().BoolVar(&a.desc, "desc", false, "sort descending")

	root.AddCommand(
		listCmd(a),
		itemsAddCmd(a),
		itemsSetCmd(a),
		itemsRemoveCmd(a),
		itemsClearCmd(a),
		unitsCmd(),
		importCmd(a),
		fontSetCmd(a),
		exportCopyCmd(a),
		exportShareCmd(a),
		exportXLSXCmd(a),
		exportHTMLCmd(a),
		printCmd(a),
		searchCmd(a),
		runsListCmd(a),
		mailFetchCmd(a),
		mailImportCmd(a),
		mailListenCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		must(err)
	}
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	a.logger = logger

	policy, err := pipeline.ParseMergePolicy(cfg.MergePolicy)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	a.db = db

	snap := db.LoadSnapshot(cfg.StorageKey, uuid.NewString, logger)
	a.ctrl = shortage.NewController(snap,
		shortage.WithMergePolicy(policy),
		shortage.WithLogger(logger),
	)
	a.ctrl.OnChange(storage.NewSnapshotPersister(db, cfg.StorageKey).Persist)
	return a.applyView()
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// applyView pushes the --filter/--sort flags into the controller.
func (a *app) applyView() error {
	a.ctrl.SetFilter(a.filter)
	if a.sortBy == "" {
		return nil
	}
	field, err := pipeline.ParseSortField(a.sortBy)
	if err != nil {
		return err
	}
	dir := pipeline.Ascending
	if a.desc {
		dir = pipeline.Descending
	}
	a.ctrl.SetSort(&pipeline.SortDirective{Field: field, Direction: dir})
	return nil
}

// exportErr turns an empty export into the notice and success.
func exportErr(cmd *cobra.Command, err error) error {
	if errors.Is(err, pipeline.ErrNothingToExport) {
		fmt.Fprintln(cmd.OutOrStdout(), emptyListNotice)
		return nil
	}
	return err
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

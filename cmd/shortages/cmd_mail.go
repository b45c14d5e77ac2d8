package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shortages/internal/connectors"
	"shortages/internal/listener"
)

func mailFetchCmd(a *app) *cobra.Command {
	var (
		provider string
		label    string
		max      int
	)
	cmd := &cobra.Command{
		Use:   "mail:fetch",
		Short: "Download new mail and store it for import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := listener.MakeConnector(cmd.Context(), a.cfg, provider)
			if err != nil {
				return err
			}
			fetch := connectors.NewFetchService(a.db, a.cfg.RawMailDir, conn, a.logger)
			res, err := fetch.FetchAndStore(cmd.Context(), label, max)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mail fetch done provider=%s fetched=%d new=%d\n", conn.Provider(), res.Fetched, res.New)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "imap", "gmail|imap")
	cmd.Flags().StringVar(&label, "label", "INBOX", "mailbox folder or label")
	cmd.Flags().IntVar(&max, "max", 50, "max messages")
	return cmd
}

func mailImportCmd(a *app) *cobra.Command {
	var (
		provider string
		batch    int
	)
	cmd := &cobra.Command{
		Use:   "mail:import",
		Short: "Import shortage lists from fetched mail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := listener.NewImportService(a.db, a.ctrl, a.logger)
			results, err := svc.ImportPending(batch, provider)
			if err != nil {
				return err
			}
			items := 0
			for _, r := range results {
				items += r.Imported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mail import done emails=%d items=%d\n", len(results), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "only mail from this provider")
	cmd.Flags().IntVar(&batch, "batch", 20, "batch size")
	return cmd
}

func mailListenCmd(a *app) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "mail:listen",
		Short: "Poll the mailbox and import shortage lists until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if provider == "" {
				provider = a.cfg.MailListenerProvider
			}
			conn, err := listener.MakeConnector(ctx, a.cfg, provider)
			if err != nil {
				return err
			}
			return listener.NewService(a.db, a.cfg, conn, a.ctrl, a.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "gmail|imap, defaults to MAIL_LISTENER_PROVIDER")
	return cmd
}

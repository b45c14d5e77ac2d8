package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shortages/internal/pipeline"
)

// now is swapped in tests.
var now = time.Now

func exportCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export:copy",
		Short: "Copy the numbered list to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := pipeline.CopyToClipboard(a.ctrl.View())
			if err != nil {
				return exportErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			fmt.Fprintln(cmd.OutOrStdout(), "تم نسخ القائمة بنجاح!")
			return nil
		},
	}
}

func exportShareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export:share",
		Short: "Print the share message and a chat link that opens it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := pipeline.ShareText(a.cfg.PharmacyName, now(), a.ctrl.View())
			if err != nil {
				return exportErr(cmd, err)
			}
			link, err := pipeline.ShareLink(a.cfg.ShareBaseURL, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func exportXLSXCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export:xlsx",
		Short: "Write the list to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if strings.TrimSpace(path) == "" {
				path = filepath.Join(a.cfg.OutputDir, "shortages.xlsx")
			}
			view := a.ctrl.View()
			if err := pipeline.ExportItemsToXLSX(view, path); err != nil {
				return exportErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", len(pipeline.ActiveItems(view)), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output xlsx path")
	return cmd
}

func exportHTMLCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export:html",
		Short: "Write a printable HTML page of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if strings.TrimSpace(path) == "" {
				path = filepath.Join(a.cfg.OutputDir, "shortages.html")
			}
			page := a.printPage()
			if len(pipeline.ActiveItems(page.Items)) == 0 {
				return exportErr(cmd, pipeline.ErrNothingToExport)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := pipeline.RenderPrintHTML(f, page); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output html path")
	return cmd
}

func printCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Show the print view of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := a.printPage()
			if len(pipeline.ActiveItems(page.Items)) == 0 {
				return exportErr(cmd, pipeline.ErrNothingToExport)
			}
			if err := pipeline.WaitSettle(cmd.Context(), a.cfg.PrintSettleDelay()); err != nil {
				return err
			}
			return pipeline.RenderPrintView(cmd.OutOrStdout(), page)
		},
	}
}

func (a *app) printPage() pipeline.PrintPage {
	st := a.ctrl.State()
	return pipeline.PrintPage{
		PharmacyName: a.cfg.PharmacyName,
		Date:         now(),
		Items:        st.Visible(),
		Font:         st.Font,
	}
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Print a web search link for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, ok := a.ctrl.State().Find(args[0])
			if !ok {
				return fmt.Errorf("item not found: %s", args[0])
			}
			link, err := pipeline.SearchLink(a.cfg.SearchBaseURL, item.Name, a.cfg.SearchQualifier)
			if err != nil {
				return err
			}
			if link == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "item has no name")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func runsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs:list",
		Short: "Show recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.db.ListRuns(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s source=%s imported=%d lines=%d\n",
					r.CreatedAt, r.TraceID, r.Source, r.Counts["imported"], r.Counts["lines"])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs")
	return cmd
}

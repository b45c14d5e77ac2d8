package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shortages/internal"
	"shortages/internal/pipeline"
)

func importCmd(a *app) *cobra.Command {
	var (
		file    string
		srcType string
		policy  string
	)
	cmd := &cobra.Command{
		Use:   "import [text...]",
		Short: "Bulk import items from text, a file or stdin",
		Long: `Each line (or comma separated fragment) becomes one item. Quantity and
unit are read from the line when present.

Text comes from the arguments, from --file, or from stdin when neither is given.
Each argument is one line, so quote an item that has spaces:
  shortages import "باندول 5 شريط" "أدول 2 كيس"
--file - also reads stdin. Files of type xlsx, pdf, html and eml are reduced to
lines first; the type is taken from the extension unless --type is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if policy != "" {
				p, err := pipeline.ParseMergePolicy(policy)
				if err != nil {
					return err
				}
				a.ctrl.SetMergePolicy(p)
			}

			source, content, err := readImportInput(cmd.InOrStdin(), args, file, srcType)
			if err != nil {
				return err
			}
			entries, err := pipeline.ExtractEntries(source, content)
			if err != nil {
				return err
			}

			imported, err := a.ctrl.Import(entries)
			if err != nil {
				return err
			}
			if err := a.db.InsertRun(uuid.NewString(), string(source), map[string]int{
				"lines":    len(entries),
				"imported": len(imported),
			}); err != nil {
				a.logger.Warn("run not recorded", zap.Error(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d items\n", len(imported))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "file to import, - for stdin")
	cmd.Flags().StringVar(&srcType, "type", "", "text|xlsx|pdf|html|eml")
	cmd.Flags().StringVar(&policy, "policy", "", "prepend|append, overrides MERGE_POLICY")
	return cmd
}

func readImportInput(stdin io.Reader, args []string, file, srcType string) (internal.ImportSource, []byte, error) {
	if len(args) > 0 {
		if file != "" {
			return "", nil, fmt.Errorf("use either text arguments or --file")
		}
		return internal.SourcePaste, []byte(strings.Join(args, "\n")), nil
	}

	source, err := importSource(file, srcType)
	if err != nil {
		return "", nil, err
	}

	var content []byte
	if file == "" || file == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(file)
	}
	if err != nil {
		return "", nil, fmt.Errorf("read import input: %w", err)
	}
	return source, content, nil
}

func importSource(file, srcType string) (internal.ImportSource, error) {
	if srcType != "" {
		switch s := internal.ImportSource(strings.ToLower(strings.TrimSpace(srcType))); s {
		case internal.SourceTextFile, internal.SourceXLSX, internal.SourcePDF, internal.SourceHTMLTable, internal.SourceEmail:
			return s, nil
		default:
			return "", fmt.Errorf("unsupported import type: %s", srcType)
		}
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx":
		return internal.SourceXLSX, nil
	case ".pdf":
		return internal.SourcePDF, nil
	case ".html", ".htm":
		return internal.SourceHTMLTable, nil
	case ".eml":
		return internal.SourceEmail, nil
	default:
		if file == "" || file == "-" {
			return internal.SourcePaste, nil
		}
		return internal.SourceTextFile, nil
	}
}

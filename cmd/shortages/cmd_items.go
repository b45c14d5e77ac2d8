package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"shortages/internal"
	"shortages/internal/shortage"
)

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the list, filtered and sorted by the view flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderList(cmd.OutOrStdout(), a.ctrl.View())
			return nil
		},
	}
}

func renderList(w io.Writer, items []internal.ShortageItem) {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{strconv.Itoa(i + 1), item.ID, item.Name, item.Quantity, item.Unit, item.Notes})
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "id", "name", "qty", "unit", "notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	fmt.Fprintln(w, t.Render())
}

func itemsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items:add",
		Short: "Add a blank row at the top of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.ctrl.AddBlank()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.ID)
			return nil
		},
	}
}

func itemsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items:set <id> <name|quantity|unit|notes> [value]",
		Short: "Edit one field of an item; a missing value clears it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := shortage.ParseField(args[1])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 3 {
				value = args[2]
			}
			return a.ctrl.UpdateField(args[0], field, value)
		},
	}
}

func itemsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items:remove <id>",
		Short: "Delete one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ctrl.Remove(args[0])
		},
	}
}

func itemsClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "items:clear",
		Short: "Empty the list, leaving one blank row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = func(string) bool { return true }
			}
			cleared, err := a.ctrl.ClearAll(confirm)
			if err != nil {
				return err
			}
			if !cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirm asks on out and accepts y, yes or نعم from in.
func promptConfirm(in io.Reader, out io.Writer) shortage.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "نعم":
			return true
		default:
			return false
		}
	}
}

func unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the suggested unit values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, u := range internal.UnitOptions {
				value := u.Value
				if value == "" {
					value = "(free text)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", value, u.Label)
			}
			return nil
		},
	}
}

func fontSetCmd(a *app) *cobra.Command {
	var (
		size   int
		family string
		color  string
		bold   bool
	)
	cmd := &cobra.Command{
		Use:   "font:set",
		Short: "Change the typography of item names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			font := a.ctrl.State().Font
			flags := cmd.Flags()
			if flags.Changed("size") {
				font.Size = size
			}
			if flags.Changed("family") {
				font.Family = internal.FontFamily(family)
			}
			if flags.Changed("color") {
				font.Color = color
			}
			if flags.Changed("bold") {
				font.Bold = bold
			}
			if err := a.ctrl.SetFont(font); err != nil {
				return err
			}
			got := a.ctrl.State().Font
			fmt.Fprintf(cmd.OutOrStdout(), "font: %s %dpx %s bold=%t\n", got.Family, got.Size, got.Color, got.Bold)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, fmt.Sprintf("size in px, %d..%d", internal.MinFontSize, internal.MaxFontSize))
	cmd.Flags().StringVar(&family, "family", "", "Cairo|Amiri|Tajawal|Arial")
	cmd.Flags().StringVar(&color, "color", "", "color as #rrggbb")
	cmd.Flags().BoolVar(&bold, "bold", false, "bold names")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotplot/pkg/errors"
	dio "github.com/matzehuels/dotplot/pkg/io"
	"github.com/matzehuels/dotplot/pkg/model"
)

type inspectOpts struct {
	inputOpts
	export string
	limit  int
}

func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:               "inspect <data>",
		Short:             "Print the transformed and sorted points",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dataFileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], &opts)
		},
	}

	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.export, "export", "e", "", "also write the points to a .csv or .xlsx file")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 50, "rows to print (0 for all)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, o *inspectOpts) error {
	dv, opts, err := c.loadInput(input, o.inputOpts)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Update(ctx, dv, opts)
	if err != nil {
		return err
	}
	col := res.Collection

	fmt.Println(StyleTitle.Render(filepath.Base(input)))
	printStats(res.Stats.Points, res.Stats.Unmatched, false)
	if res.Degraded != nil {
		printWarning("%s", errors.UserMessage(res.Degraded))
	}
	fmt.Println()
	fmt.Println(pointTable(col, o.limit).Render())
	if o.limit > 0 && col.Len() > o.limit {
		printDetail("%d more rows (use --limit 0 to show all)", col.Len()-o.limit)
	}

	if o.export != "" {
		if err := exportPoints(o.export, col); err != nil {
			return err
		}
		printFile(o.export)
	}
	printNextStep("Render it", "dotplot render "+input)
	return nil
}

var pointHeaders = []string{"#", "Key", "Parent", "Group", "Category", "Value", "Size", "Color"}

// pointRows formats up to limit points (all when limit is 0).
func pointRows(c *model.Collection, limit int) [][]string {
	n := c.Len()
	if limit > 0 {
		n = min(n, limit)
	}
	rows := make([][]string, n)
	for i, p := range c.Points[:n] {
		size := ""
		if c.Flags.Size {
			size = strconv.FormatFloat(p.CategorySize, 'g', -1, 64)
		}
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.Itoa(p.SortKey),
			p.XCategoryParent,
			p.CategoryGroup,
			p.Category,
			strconv.FormatFloat(p.Value, 'g', -1, 64),
			size,
			p.CategoryColor,
		}
	}
	return rows
}

func pointTable(c *model.Collection, limit int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(pointHeaders...).
		Rows(pointRows(c, limit)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case col == 5 || col == 6:
				return StyleNumber
			case col <= 1:
				return StyleDim
			}
			return StyleValue
		})
}

func exportPoints(path string, c *model.Collection) error {
	var write func(io.Writer, *model.Collection) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = dio.WritePointsCSV
	case ".xlsx":
		write = dio.WritePointsXLSX
	default:
		return errors.New(errors.ErrCodeUnsupported, "export to %s is not supported (use .csv or .xlsx)", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f, c); err != nil {
		return err
	}
	return f.Close()
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyForce bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the search history",
	Long: `List, clear, and export recorded searches.

Subcommands:
  list    List recent searches (default)
  clear   Remove all recorded searches
  export  Write the full history as CSV

Examples:
  gijidex history
  gijidex history list -n 50
  gijidex history clear --force
  gijidex history export backup.csv`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded searches",
	RunE:  runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the full history as CSV, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryExport,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max entries shown")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max entries shown")
	historyClearCmd.Flags().BoolVarP(&historyForce, "force", "f", false, "skip confirmation")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	entries, err := eng.History(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No searches recorded.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("WHEN", "CRITERIA", "MATCHES")
	for _, e := range entries {
		table.Append(
			e.SearchedAt.Format("2006-01-02 15:04"),
			filterSummary(e.Filter),
			strconv.Itoa(e.ResultCount),
		)
	}
	table.Render()
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyForce {
		fmt.Print("Remove all recorded searches? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := eng.ClearHistory(context.Background()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	fmt.Println("Search history cleared.")
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := eng.ExportHistory(context.Background(), out); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if len(args) == 1 {
		fmt.Printf("History exported to %s\n", args[0])
	}
	return nil
}

// Package cli provides the gijidex command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gijidex"
	"github.com/kailas-cloud/gijidex/internal/version"
)

var (
	// Global flags
	verbose     bool
	apiURL      string
	timeoutSec  int
	historyFile string
	redisAddrs  []string

	// Engine shared by all commands, built in PersistentPreRunE.
	eng *gijidex.Engine
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gijidex",
	Short: "Search and analyze National Diet proceedings",
	Long: `Gijidex searches the National Diet Library's speech record API and
computes statistics and keyword rankings over the results.

Every search is recorded in a local history (a CSV file by default,
Redis optionally) that can be listed, cleared, and exported.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The engine is not needed for version and help output.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		opts := []gijidex.Option{
			gijidex.WithTimeout(time.Duration(timeoutSec) * time.Second),
		}
		if apiURL != "" {
			opts = append(opts, gijidex.WithBaseURL(apiURL))
		}
		if historyFile != "" {
			opts = append(opts, gijidex.WithHistoryFile(historyFile))
		}
		if len(redisAddrs) > 0 {
			opts = append(opts, gijidex.WithHistoryRedis(gijidex.RedisOptions{
				Addrs:    redisAddrs,
				Username: os.Getenv("GIJIDEX_REDIS_USERNAME"),
				Password: os.Getenv("GIJIDEX_REDIS_PASSWORD"),
			}))
		}
		if verbose {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts = append(opts, gijidex.WithLogger(logger))
		}

		var err error
		eng, err = gijidex.New(opts...)
		if err != nil {
			return fmt.Errorf("init engine: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eng != nil {
			eng.Close()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "minutes API endpoint override")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 30, "per-search timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history-file", "", "history CSV path (default search_history.csv)")
	rootCmd.PersistentFlags().StringSliceVar(&redisAddrs, "redis", nil, "redis addresses for history storage (switches off the CSV file)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
}

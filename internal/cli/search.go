package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/gijidex"
)

var (
	searchKeyword string
	searchSpeaker string
	searchMeeting string
	searchHouse   string
	searchFrom    string
	searchUntil   string
	searchMax     int
	searchTop     int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Diet speech records",
	Long: `Search speech records by keyword, speaker, meeting, house, and date
range, then print the matches with statistics and keyword rankings.

An empty filter matches everything up to the record cap.

Examples:
  gijidex search --keyword 予算
  gijidex search --speaker 岸田文雄 --from 2023-01-01 --until 2023-12-31
  gijidex search --keyword 防衛 --meeting 予算委員会 --house 衆議院 --max 100`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchKeyword, "keyword", "k", "", "full-text keyword")
	searchCmd.Flags().StringVarP(&searchSpeaker, "speaker", "s", "", "speaker name")
	searchCmd.Flags().StringVarP(&searchMeeting, "meeting", "m", "", "meeting name")
	searchCmd.Flags().StringVar(&searchHouse, "house", "", "house name (衆議院, 参議院, 両院)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "start date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchUntil, "until", "", "end date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 0, "record cap (default 30)")
	searchCmd.Flags().IntVar(&searchTop, "top", 10, "rows shown per ranking table")
}

func runSearch(cmd *cobra.Command, args []string) error {
	from, err := parseDateFlag("from", searchFrom)
	if err != nil {
		return err
	}
	until, err := parseDateFlag("until", searchUntil)
	if err != nil {
		return err
	}

	res, err := eng.Search(context.Background(), gijidex.Filter{
		Keyword:    searchKeyword,
		Speaker:    searchSpeaker,
		Meeting:    searchMeeting,
		House:      searchHouse,
		From:       from,
		Until:      until,
		MaxRecords: searchMax,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(res.Records) == 0 {
		fmt.Println("No speeches found.")
		return nil
	}

	fmt.Printf("Fetched %d of %d matching speeches", len(res.Records), res.TotalAvailable)
	if res.Skipped > 0 {
		fmt.Printf(" (%d skipped)", res.Skipped)
	}
	fmt.Print("\n\n")

	displaySpeeches(res.Records)
	displayStatistics(res.Statistics, searchTop)
	displayKeywords(res.Keywords, searchTop)
	displayMeetings(res.Meetings)
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD, got %q", name, value)
	}
	return t, nil
}

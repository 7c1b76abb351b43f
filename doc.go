// Package gijidex provides a search and analytics engine for the National
// Diet "Kokkai Kaigiroku" speech record API.
//
// A search fetches speech records matching a filter, normalizes them,
// derives per-speaker/meeting/date statistics and keyword rankings, and
// records the query in a local search history:
//
//	engine, _ := gijidex.New()
//	defer engine.Close()
//
//	res, _ := engine.Search(ctx, gijidex.Filter{Keyword: "予算", MaxRecords: 50})
//	for _, kw := range res.Keywords {
//	    fmt.Println(kw.Token, kw.Count)
//	}
//
// The history of past searches is queryable and exportable as CSV:
//
//	entries, _ := engine.History(ctx, 10)
//	_ = engine.ExportHistory(ctx, os.Stdout)
//
// By default the history lives in a CSV file next to the process; use
// WithHistoryRedis to keep it in Redis instead. Keyword extraction runs on
// a bundled Japanese morphological dictionary and can be replaced
// (WithTokenizer) or disabled (WithoutTokenizer).
package gijidex

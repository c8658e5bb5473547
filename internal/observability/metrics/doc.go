// Package metrics provides the Prometheus collectors for a digest run.
//
// All collectors are registered with the default registry and exposed by the
// worker's /metrics endpoint. Stage code calls the Record* helpers rather than
// touching collectors directly.
//
//	start := time.Now()
//	content, err := fetcher.FetchContent(ctx, url)
//	if err != nil {
//	    metrics.RecordContentFetchFailure(time.Since(start))
//	}
package metrics

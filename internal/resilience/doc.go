// Package resilience groups the failure handling shared by every outbound
// call of a digest run. Adapters retry inside a circuit breaker:
//
//	cb := circuitbreaker.New(circuitbreaker.NewsAPIConfig())
//	err := retry.WithBackoff(ctx, retry.NewsAPIConfig(), func() error {
//	    res, err := cb.Execute(func() (interface{}, error) { return search(ctx) })
//	    ...
//	})
//
// A failing upstream costs its own stage a few articles, never the run.
package resilience

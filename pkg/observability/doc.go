/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log lines.

	metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng := turing.New(turing.WithLifecycleHooks(metrics.Hooks()))

Hooks observe runs; they never influence them.
*/
package observability

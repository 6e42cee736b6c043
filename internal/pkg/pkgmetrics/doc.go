// Package pkgmetrics owns the Prometheus registry exposed on /metrics.
package pkgmetrics

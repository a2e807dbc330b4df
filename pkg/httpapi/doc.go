// Package httpapi publishes translation bundles over HTTP.
//
// The router serves any source.Fetcher, so a service holding the bundles
// (on disk, in S3, ...) can be consumed by remote loaders through
// source.HTTP:
//
//	GET /locales/{lang}/{namespace}   200 bundle JSON, 404 missing, 502 source failure
//	GET /health/live                  liveness probe
//	GET /health/ready                 readiness probe running named checks
//	GET /metrics                      Prometheus metrics, when a gatherer is set
//
// The bundle endpoint returns exactly what the source holds for the pair. It
// never falls back to another language; fallback is the client's concern.
//
//	h := httpapi.New(fetcher,
//	    httpapi.WithLanguages(langs),
//	    httpapi.WithChecks(httpapi.Checks{"redis": kv.Healthcheck(client)}),
//	    httpapi.WithMetrics(reg, reg),
//	)
//	err := httpapi.Serve(ctx, ":8080", h, httpapi.WithServerLogger(log))
package httpapi

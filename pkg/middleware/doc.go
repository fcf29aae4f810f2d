// Package middleware provides HTTP middleware for the retain server.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span for every request, named after the
// matched chi route pattern:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global provider; configure it with
// otel.SetTracerProvider before serving.
//
// # Prometheus
//
// Prometheus counts requests by route and status and observes their
// duration:
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// Metrics collected:
//   - retain_http_requests_total{route,status}
//   - retain_http_request_duration_seconds{route}
package middleware

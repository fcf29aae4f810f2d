package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingProvider struct {
	noop.TracerProvider
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{p: p}
}

type recordingTracer struct {
	noop.Tracer
	p *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	t.p.spans = append(t.p.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetName(name string)                    { s.name = name }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string)       { s.status = c }
func (s *recordingSpan) End(...trace.SpanEndOption)             { s.ended = true }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newRouter(mw func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOpenTelemetry(t *testing.T) {
	tp := &recordingProvider{}
	var inside trace.Span
	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		inside = SpanFromRequest(r)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	serve(r, "/items/7")
	serve(r, "/boom")

	if len(tp.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tp.spans))
	}
	ok := tp.spans[0]
	if ok.name != "HTTP GET /items/{id}" || !ok.ended || ok.status == codes.Error {
		t.Errorf("span = %+v", ok)
	}
	if inside != trace.Span(ok) {
		t.Error("handler did not see the request span")
	}
	if v, _ := ok.attr("test.attr"); v.AsString() != "ok" {
		t.Errorf("test.attr = %v", v)
	}
	if v, _ := ok.attr("http.status_code"); v.AsInt64() != 200 {
		t.Errorf("status attr = %v", v)
	}
	if tp.spans[1].status != codes.Error {
		t.Errorf("5xx span status = %v, want Error", tp.spans[1].status)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tp := &recordingProvider{}
	h := newRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))

	if w := serve(h, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(tp.spans) != 0 {
		t.Errorf("filtered request was traced: %d spans", len(tp.spans))
	}
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(Prometheus(WithRegistry(reg), WithNamespace("test")))

	serve(h, "/items/1")
	serve(h, "/items/2")
	serve(h, "/boom")
	serve(h, "/nope")

	count, err := testutil.GatherAndCount(reg, "test_http_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("series = %d, want 3 (items, boom, unmatched)", count)
	}

	tests := []struct {
		route, status string
		want          float64
	}{
		{"/items/{id}", "200", 2},
		{"/boom", "500", 1},
		{"unmatched", "404", 1},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			c, err := findCounter(reg, "test_http_requests_total", tt.route, tt.status)
			if err != nil {
				t.Fatal(err)
			}
			if c != tt.want {
				t.Errorf("requests{%s,%s} = %v, want %v", tt.route, tt.status, c, tt.want)
			}
		})
	}
}

func findCounter(reg *prometheus.Registry, name, route, status string) (float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return 0, err
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == route && labels["status"] == status {
				return m.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, nil
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		upgrade bool
		write   int
		want    int
	}{
		{"explicit", false, http.StatusTeapot, http.StatusTeapot},
		{"implicit ok", false, 0, http.StatusOK},
		{"hijacked upgrade", true, 0, http.StatusSwitchingProtocols},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.upgrade {
				r.Header.Set("Upgrade", "websocket")
			}
			ww := chimw.NewWrapResponseWriter(httptest.NewRecorder(), r.ProtoMajor)
			if tt.write != 0 {
				ww.WriteHeader(tt.write)
			}
			if got := status(ww, r); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

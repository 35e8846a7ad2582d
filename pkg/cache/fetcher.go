package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache/loadercache"
	"github.com/mpapenbr/minisector-dominance/version"
)

// StatusError is returned for upstream responses other than 200.
// Those responses are never stored.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Fetcher performs GET requests through a Store.
// Within one Fetcher each url is requested at most once.
type Fetcher struct {
	client *http.Client
	store  Store
	memo   cache.Cache[string, []byte]
	log    *log.Logger
	tracer trace.Tracer
	hits   metric.Int64Counter
	misses metric.Int64Counter
}

type FetcherOption func(*Fetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithStore(store Store) FetcherOption {
	return func(f *Fetcher) {
		f.store = store
	}
}

func WithLogger(l *log.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = l
	}
}

func WithTracer(tracer trace.Tracer) FetcherOption {
	return func(f *Fetcher) {
		f.tracer = tracer
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	ret := &Fetcher{
		client: http.DefaultClient,
		store:  NewNoop(),
		log:    log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("msd")
	}
	ret.setupMetrics()
	ret.memo = loadercache.New(
		loadercache.WithLoader[string, []byte](ret.load),
		loadercache.WithExpiration[string, []byte](0),
		loadercache.WithLogger[string, []byte](ret.log.Named("memo")),
	)
	return ret
}

func (f *Fetcher) setupMetrics() {
	meter := otel.GetMeterProvider().Meter("msd")
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit("{count}"))
		if err != nil {
			f.log.Warn("failed to register metric",
				log.String("metric", name),
				log.ErrorField(err))
			return noop.Int64Counter{}
		}
		return c
	}
	f.hits = counter("msd.cache.hit", "Number of responses served from the cache")
	f.misses = counter("msd.cache.miss", "Number of responses requested upstream")
}

// Get returns the body of a successful GET request on url.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := f.memo.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return *data, nil
}

// Clear drops the responses memoized by f and removes all entries of its store.
// It returns the number of store entries removed.
func (f *Fetcher) Clear(ctx context.Context) (int, error) {
	memoized := f.memo.InvalidateAll(ctx)
	n, err := f.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	f.log.Debug("cleared", log.Int("memoized", memoized), log.Int("stored", n))
	return n, nil
}

func (f *Fetcher) load(ctx context.Context, url string) (*[]byte, error) {
	key := Key(url)
	data, err := f.store.Get(ctx, key)
	switch {
	case err == nil:
		f.hits.Add(ctx, 1)
		f.log.Debug("cache hit", log.String("url", url))
		return &data, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		f.log.Warn("cache lookup failed", log.String("url", url), log.ErrorField(err))
	}
	f.misses.Add(ctx, 1)

	data, err = f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.store.Put(ctx, key, data); err != nil {
		f.log.Warn("cache store failed", log.String("url", url), log.ErrorField(err))
	}
	return &data, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := f.tracer.Start(ctx, "GET",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "msd/"+version.Version)

	f.log.Debug("requesting", log.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("status", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
	"github.com/mpapenbr/minisector-dominance/pkg/model"
	"github.com/mpapenbr/minisector-dominance/pkg/telemetry"
)

// format for date filters, interpreted as UTC by the api
const dateFilterLayout = "2006-01-02T15:04:05.000"

// Getter performs a GET request and returns the response body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Client struct {
	baseURL string
	getter  Getter
	log     *log.Logger
	tracer  trace.Tracer
}

var _ telemetry.Source = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithGetter(g Getter) Option {
	return func(c *Client) {
		c.getter = g
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

func New(opts ...Option) *Client {
	ret := &Client{
		baseURL: config.DefaultSourceURL,
		log:     log.Default().Named("telemetry.openf1"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.getter == nil {
		ret.getter = cache.NewFetcher(cache.WithHTTPClient(&http.Client{Timeout: time.Minute}))
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("msd")
	}
	return ret
}

// Session resolves the session by year, event and short session code.
// The event is matched against country, location and circuit (in that order).
func (c *Client) Session(ctx context.Context, ref model.SessionRef) (*model.Session, error) {
	ctx, span := c.tracer.Start(ctx, "resolve session",
		trace.WithAttributes(attribute.String("session", ref.String())))
	defer span.End()

	code := strings.ToUpper(strings.TrimSpace(ref.SessionType))
	if _, ok := sessionNames[code]; !ok {
		return nil, fmt.Errorf("%w: unknown session type %q", model.ErrDataUnavailable, ref.SessionType)
	}
	for _, field := range []string{"country_name", "location", "circuit_short_name"} {
		var sessions []apiSession
		err := c.getJSON(ctx, fmt.Sprintf("/sessions?year=%d&%s=%s",
			ref.Season, field, url.QueryEscape(ref.Event)), &sessions)
		if err != nil {
			return nil, err
		}
		c.log.Debug("sessions found",
			log.String("field", field),
			log.String("event", ref.Event),
			log.Int("count", len(sessions)))
		if s, ok := pickSession(sessions, code); ok {
			return &model.Session{
				Key:         s.SessionKey,
				MeetingKey:  s.MeetingKey,
				Name:        s.SessionName,
				Type:        s.SessionType,
				Season:      s.Year,
				Country:     s.CountryName,
				Location:    s.Location,
				Circuit:     s.CircuitShortName,
				Start:       s.DateStart,
				End:         s.DateEnd,
				SessionType: code,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no session %s", model.ErrDataUnavailable, ref)
}

func (c *Client) driverNumber(ctx context.Context, s *model.Session, driver model.DriverID) (
	int, error,
) {
	var drivers []apiDriver
	if err := c.getJSON(ctx, fmt.Sprintf("/drivers?session_key=%d", s.Key), &drivers); err != nil {
		return 0, err
	}
	d, ok := lo.Find(drivers, func(d apiDriver) bool {
		return strings.EqualFold(d.NameAcronym, string(driver))
	})
	if !ok {
		return 0, fmt.Errorf("%w: driver %s not in session %d",
			model.ErrDataUnavailable, driver, s.Key)
	}
	return d.DriverNumber, nil
}

func (c *Client) FastestLap(ctx context.Context, s *model.Session, driver model.DriverID) (
	*model.Lap, error,
) {
	ctx, span := c.tracer.Start(ctx, "fastest lap",
		trace.WithAttributes(attribute.String("driver", string(driver))))
	defer span.End()

	num, err := c.driverNumber(ctx, s, driver)
	if err != nil {
		return nil, err
	}
	var laps []apiLap
	if err := c.getJSON(ctx, fmt.Sprintf("/laps?session_key=%d&driver_number=%d",
		s.Key, num), &laps); err != nil {
		return nil, err
	}
	lap, ok := pickFastest(laps)
	if !ok {
		return nil, fmt.Errorf("%w: no timed lap for %s in session %d",
			model.ErrDataUnavailable, driver, s.Key)
	}
	c.log.Debug("fastest lap",
		log.String("driver", string(driver)),
		log.Int("laps", len(laps)),
		log.Int("lap", lap.LapNumber),
		log.Float64("duration", *lap.LapDuration))
	return &model.Lap{
		Driver:       driver,
		DriverNumber: num,
		Number:       lap.LapNumber,
		Start:        lap.DateStart,
		Duration:     seconds(*lap.LapDuration),
		PitOut:       lap.IsPitOutLap,
	}, nil
}

func (c *Client) Telemetry(ctx context.Context, s *model.Session, lap *model.Lap) (
	[]model.Sample, error,
) {
	ctx, span := c.tracer.Start(ctx, "telemetry",
		trace.WithAttributes(
			attribute.String("driver", string(lap.Driver)),
			attribute.Int("lap", lap.Number)))
	defer span.End()

	window := fmt.Sprintf("session_key=%d&driver_number=%d&date>=%s&date<=%s",
		s.Key, lap.DriverNumber,
		lap.Start.UTC().Format(dateFilterLayout),
		lap.End().UTC().Format(dateFilterLayout))
	var car []apiCarData
	if err := c.getJSON(ctx, "/car_data?"+window, &car); err != nil {
		return nil, err
	}
	var loc []apiLocation
	if err := c.getJSON(ctx, "/location?"+window, &loc); err != nil {
		return nil, err
	}
	c.log.Debug("raw telemetry",
		log.String("driver", string(lap.Driver)),
		log.Int("carData", len(car)),
		log.Int("location", len(loc)))
	if len(car) == 0 || len(loc) == 0 {
		return nil, fmt.Errorf("%w: %s lap %d: %d car data, %d location samples",
			model.ErrEmptyTelemetry, lap.Driver, lap.Number, len(car), len(loc))
	}
	samples := mergeTelemetry(lap.Start, car, loc)
	for i := range samples {
		samples[i].Driver = lap.Driver
	}
	return samples, nil
}

// getJSON decodes the response of path into target.
// A 404 is the api's way to report an empty result.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	data, err := c.getter.Get(ctx, c.baseURL+path)
	if err != nil {
		var statusErr *cache.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusNotFound {
				return nil
			}
			if detail := errorDetail(statusErr.Body); detail != "" {
				return fmt.Errorf("%w: %w (%s)", model.ErrDataUnavailable, err, detail)
			}
		}
		return fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: decode %s: %w", model.ErrDataUnavailable, path, err)
	}
	return nil
}

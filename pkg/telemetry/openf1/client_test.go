//nolint:lll,funlen // ok for tests
package openf1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

const (
	sessionsJSON = `[
 {"session_key":9571,"meeting_key":1240,"session_name":"Practice 1","session_type":"Practice","year":2024,"country_name":"Belgium","location":"Spa-Francorchamps","circuit_short_name":"Spa-Francorchamps","date_start":"2024-07-26T11:30:00+00:00","date_end":"2024-07-26T12:30:00+00:00"},
 {"session_key":9574,"meeting_key":1240,"session_name":"Qualifying","session_type":"Qualifying","year":2024,"country_name":"Belgium","location":"Spa-Francorchamps","circuit_short_name":"Spa-Francorchamps","date_start":"2024-07-27T14:00:00+00:00","date_end":"2024-07-27T15:00:00+00:00"}
]`
	driversJSON = `[
 {"driver_number":4,"name_acronym":"NOR","full_name":"Lando NORRIS","team_name":"McLaren"},
 {"driver_number":81,"name_acronym":"PIA","full_name":"Oscar PIASTRI","team_name":"McLaren"}
]`
	lapsJSON = `[
 {"driver_number":4,"lap_number":1,"date_start":null,"lap_duration":null,"is_pit_out_lap":true},
 {"driver_number":4,"lap_number":2,"date_start":"2024-07-27T14:20:00.000000+00:00","lap_duration":4.0,"is_pit_out_lap":false},
 {"driver_number":4,"lap_number":3,"date_start":"2024-07-27T14:22:00.000000+00:00","lap_duration":4.5,"is_pit_out_lap":false}
]`
	carDataJSON = `[
 {"date":"2024-07-27T14:20:01.000000+00:00","speed":36,"rpm":10000,"n_gear":3,"throttle":100,"brake":0},
 {"date":"2024-07-27T14:20:02.000000+00:00","speed":72,"rpm":11000,"n_gear":4,"throttle":100,"brake":0}
]`
	locationJSON = `[
 {"date":"2024-07-27T14:20:00.000000+00:00","x":0,"y":0,"z":0},
 {"date":"2024-07-27T14:20:04.000000+00:00","x":400,"y":800,"z":0}
]`
)

type fixture struct {
	mu       sync.Mutex
	requests []string
}

func (f *fixture) requested(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			ret++
		}
	}
	return ret
}

func (f *fixture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.RawQuery
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.Path+"?"+q)
		f.mu.Unlock()
		body := ""
		switch {
		case r.URL.Path == "/sessions" && strings.Contains(q, "location=Spa-Francorchamps"):
			body = sessionsJSON
		case r.URL.Path == "/sessions" && strings.Contains(q, "country_name=Belgium"):
			body = sessionsJSON
		case r.URL.Path == "/drivers" && strings.Contains(q, "session_key=9574"):
			body = driversJSON
		case r.URL.Path == "/laps" && strings.Contains(q, "driver_number=4"):
			body = lapsJSON
		case r.URL.Path == "/car_data" && strings.Contains(q, "date>=2024-07-27T14:20:00.000&date<=2024-07-27T14:20:04.000"):
			body = carDataJSON
		case r.URL.Path == "/location" && strings.Contains(q, "date>=2024-07-27T14:20:00.000"):
			body = locationJSON
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"No results found."}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(
		WithBaseURL(srv.URL+"/"),
		WithGetter(cache.NewFetcher(cache.WithHTTPClient(srv.Client()))))
}

func TestClient_Session(t *testing.T) {
	f := &fixture{}
	c := newTestClient(f.server(t))
	ctx := context.Background()

	s, err := c.Session(ctx, model.SessionRef{Season: 2024, Event: "Belgium", SessionType: "q"})
	require.NoError(t, err)
	assert.Equal(t, 9574, s.Key)
	assert.Equal(t, "Qualifying", s.Name)
	assert.Equal(t, "Q", s.SessionType)
	assert.Equal(t, time.Date(2024, 7, 27, 14, 0, 0, 0, time.UTC), s.Start.UTC())

	// no country match, resolved by location
	s, err = c.Session(ctx, model.SessionRef{Season: 2024, Event: "Spa-Francorchamps", SessionType: "FP1"})
	require.NoError(t, err)
	assert.Equal(t, 9571, s.Key)

	_, err = c.Session(ctx, model.SessionRef{Season: 2024, Event: "Belgium", SessionType: "R"})
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	_, err = c.Session(ctx, model.SessionRef{Season: 2024, Event: "Belgium", SessionType: "XX"})
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestClient_FastestLapAndTelemetry(t *testing.T) {
	f := &fixture{}
	c := newTestClient(f.server(t))
	ctx := context.Background()
	s := &model.Session{Key: 9574}

	lap, err := c.FastestLap(ctx, s, "nor")
	require.NoError(t, err)
	assert.Equal(t, 2, lap.Number)
	assert.Equal(t, 4, lap.DriverNumber)
	assert.Equal(t, 4*time.Second, lap.Duration)

	samples, err := c.Telemetry(ctx, s, lap)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.InDelta(t, 10.0, samples[0].Distance, 1e-9)
	assert.InDelta(t, 30.0, samples[1].Distance, 1e-9)
	assert.InDelta(t, 100.0, samples[0].X, 1e-9)
	assert.InDelta(t, 400.0, samples[1].Y, 1e-9)
	assert.Equal(t, model.DriverID("nor"), samples[0].Driver)

	// responses are memoized per client
	_, err = c.FastestLap(ctx, s, "NOR")
	require.NoError(t, err)
	assert.Equal(t, 1, f.requested("/drivers"))
}

func TestClient_Unavailable(t *testing.T) {
	f := &fixture{}
	c := newTestClient(f.server(t))
	ctx := context.Background()

	_, err := c.FastestLap(ctx, &model.Session{Key: 9574}, "VER")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	// PIA is known but has no laps
	_, err = c.FastestLap(ctx, &model.Session{Key: 9574}, "PIA")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	_, err = c.Telemetry(ctx, &model.Session{Key: 9574}, &model.Lap{
		Driver: "NOR", DriverNumber: 4, Number: 3,
		Start:    time.Date(2024, 7, 27, 14, 22, 0, 0, time.UTC),
		Duration: 4500 * time.Millisecond,
	})
	assert.ErrorIs(t, err, model.ErrEmptyTelemetry)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["query","year"],"msg":"value is not a valid integer"}]}`))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(srv)

	_, err := c.Session(context.Background(), model.SessionRef{Season: 2024, Event: "Belgium", SessionType: "Q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "value is not a valid integer")
}

package openf1

import (
	"slices"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

var sessionNames = map[string][]string{
	"FP1": {"Practice 1"},
	"FP2": {"Practice 2"},
	"FP3": {"Practice 3"},
	"SQ":  {"Sprint Qualifying", "Sprint Shootout"},
	"S":   {"Sprint"},
	"Q":   {"Qualifying"},
	"R":   {"Race"},
}

// pickSession returns the earliest session matching the short code.
func pickSession(sessions []apiSession, code string) (apiSession, bool) {
	names, ok := sessionNames[code]
	if !ok {
		return apiSession{}, false
	}
	candidates := lo.Filter(sessions, func(s apiSession, _ int) bool {
		return slices.Contains(names, s.SessionName)
	})
	if len(candidates) == 0 {
		return apiSession{}, false
	}
	return lo.MinBy(candidates, func(a, b apiSession) bool {
		return a.DateStart.Before(b.DateStart)
	}), true
}

// pickFastest returns the lap with the smallest duration.
// Laps without duration or start and pit out laps are ignored.
// On equal durations the lower lap number wins.
func pickFastest(laps []apiLap) (apiLap, bool) {
	valid := lo.Filter(laps, func(l apiLap, _ int) bool {
		return l.LapDuration != nil && *l.LapDuration > 0 &&
			!l.IsPitOutLap && !l.DateStart.IsZero()
	})
	if len(valid) == 0 {
		return apiLap{}, false
	}
	return lo.MinBy(valid, func(a, b apiLap) bool {
		if *a.LapDuration == *b.LapDuration {
			return a.LapNumber < b.LapNumber
		}
		return *a.LapDuration < *b.LapDuration
	}), true
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// mergeTelemetry uses the car data as timeline and adds the interpolated
// position. The distance is integrated from the speed starting at lapStart.
func mergeTelemetry(lapStart time.Time, car []apiCarData, loc []apiLocation) []model.Sample {
	car = slices.Clone(car)
	slices.SortStableFunc(car, func(a, b apiCarData) int { return a.Date.Compare(b.Date) })
	loc = slices.Clone(loc)
	slices.SortStableFunc(loc, func(a, b apiLocation) int { return a.Date.Compare(b.Date) })

	ret := make([]model.Sample, len(car))
	prev := lapStart
	dist := 0.0
	for i := range car {
		dt := car[i].Date.Sub(prev).Seconds()
		dist += car[i].Speed / 3.6 * dt
		prev = car[i].Date
		x, y := interpolate(loc, car[i].Date)
		ret[i] = model.Sample{
			Distance: dist,
			X:        x,
			Y:        y,
			Speed:    car[i].Speed,
		}
	}
	return ret
}

// interpolate returns the position at t, linear between the surrounding
// location samples and clamped to the first/last sample.
func interpolate(loc []apiLocation, t time.Time) (x, y float64) {
	if len(loc) == 0 {
		return 0, 0
	}
	idx := sort.Search(len(loc), func(i int) bool {
		return !loc[i].Date.Before(t)
	})
	switch {
	case idx == 0:
		return loc[0].X, loc[0].Y
	case idx == len(loc):
		return loc[len(loc)-1].X, loc[len(loc)-1].Y
	}
	a, b := loc[idx-1], loc[idx]
	span := b.Date.Sub(a.Date).Seconds()
	if span <= 0 {
		return b.X, b.Y
	}
	f := t.Sub(a.Date).Seconds() / span
	return a.X + f*(b.X-a.X), a.Y + f*(b.Y-a.Y)
}

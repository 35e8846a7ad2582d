package dominance

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

var ErrNotSegmented = errors.New("sample has no minisector assigned")

type groupKey struct {
	minisector int
	driver     model.DriverID
}

// AggregateStats computes the mean speed per minisector and driver and picks
// the winner of each minisector. The result is ordered by minisector index.
// On equal mean speeds the lexicographically smaller driver id wins.
func AggregateStats(samples []model.Sample) ([]model.MinisectorStats, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", model.ErrEmptyTelemetry)
	}
	if s, found := lo.Find(samples, func(s model.Sample) bool {
		return s.Minisector < 1
	}); found {
		return nil, fmt.Errorf("%w: driver %s distance %v",
			ErrNotSegmented, s.Driver, s.Distance)
	}

	groups := lo.GroupBy(samples, func(s model.Sample) groupKey {
		return groupKey{minisector: s.Minisector, driver: s.Driver}
	})
	byIndex := map[int]*model.MinisectorStats{}
	for key, group := range groups {
		st, ok := byIndex[key.minisector]
		if !ok {
			st = &model.MinisectorStats{
				Index:     key.minisector,
				MeanSpeed: map[model.DriverID]float64{},
				Samples:   map[model.DriverID]int{},
			}
			byIndex[key.minisector] = st
		}
		st.MeanSpeed[key.driver] = meanSpeed(group)
		st.Samples[key.driver] = len(group)
	}

	ret := make([]model.MinisectorStats, 0, len(byIndex))
	for _, st := range byIndex {
		st.Winner = pickWinner(st.MeanSpeed)
		ret = append(ret, *st)
	}
	slices.SortFunc(ret, func(a, b model.MinisectorStats) int {
		return a.Index - b.Index
	})
	return ret, nil
}

// Aggregate returns the winning driver per minisector index.
func Aggregate(samples []model.Sample) (model.Dominance, error) {
	stats, err := AggregateStats(samples)
	if err != nil {
		return nil, err
	}
	return DominanceOf(stats), nil
}

func DominanceOf(stats []model.MinisectorStats) model.Dominance {
	ret := make(model.Dominance, len(stats))
	for i := range stats {
		ret[stats[i].Index] = stats[i].Winner
	}
	return ret
}

func meanSpeed(samples []model.Sample) float64 {
	return lo.SumBy(samples, func(s model.Sample) float64 {
		return s.Speed
	}) / float64(len(samples))
}

func pickWinner(means map[model.DriverID]float64) model.DriverID {
	drivers := lo.Keys(means)
	slices.Sort(drivers)
	winner := drivers[0]
	for _, d := range drivers[1:] {
		if means[d] > means[winner] {
			winner = d
		}
	}
	return winner
}

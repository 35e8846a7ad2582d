package dominance

import (
	"fmt"
	"slices"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

// Codes maps a driver to the numeric value used for the color scale.
type Codes map[model.DriverID]int

// CodesFor assigns 1 to driver a and 2 to driver b.
func CodesFor(a, b model.DriverID) Codes {
	return Codes{a: 1, b: 2}
}

// Drivers returns the drivers ordered by their code.
func (c Codes) Drivers() []model.DriverID {
	ret := make([]model.DriverID, 0, len(c))
	for d := range c {
		ret = append(ret, d)
	}
	slices.SortFunc(ret, func(a, b model.DriverID) int {
		return c[a] - c[b]
	})
	return ret
}

// JoinWinners returns a copy of samples with the minisector winner attached,
// sorted by distance. Samples with equal distance keep their input order.
func JoinWinners(samples []model.Sample, dom model.Dominance) ([]model.Sample, error) {
	ret := make([]model.Sample, len(samples))
	for i := range samples {
		winner, ok := dom[samples[i].Minisector]
		if !ok {
			return nil, fmt.Errorf("no winner for minisector %d", samples[i].Minisector)
		}
		ret[i] = samples[i]
		ret[i].Winner = winner
	}
	slices.SortStableFunc(ret, func(a, b model.Sample) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return ret, nil
}

// BuildSegments connects consecutive samples. Segment i runs from sample i to
// sample i+1 and carries the winner code of sample i.
func BuildSegments(sorted []model.Sample, codes Codes) ([]model.PathSegment, error) {
	if len(sorted) < 2 {
		return []model.PathSegment{}, nil
	}
	ret := make([]model.PathSegment, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		from, to := sorted[i], sorted[i+1]
		code, ok := codes[from.Winner]
		if !ok {
			return nil, fmt.Errorf("no code for driver %q", from.Winner)
		}
		ret = append(ret, model.PathSegment{
			From:       model.Point{X: from.X, Y: from.Y},
			To:         model.Point{X: to.X, Y: to.Y},
			Minisector: from.Minisector,
			Winner:     from.Winner,
			Code:       code,
		})
	}
	return ret, nil
}

package basedata

import (
	"math"
	"time"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-07-27T14:00:00Z")
	return t
}

func SampleSession() *model.Session {
	return &model.Session{
		Key:         9574,
		MeetingKey:  1240,
		Name:        "Qualifying",
		Type:        "Qualifying",
		Season:      2024,
		Country:     "Belgium",
		Location:    "Spa-Francorchamps",
		Circuit:     "Spa-Francorchamps",
		Start:       TestTime(),
		End:         TestTime().Add(time.Hour),
		SessionType: "Q",
	}
}

// LinearLap creates num samples with distances evenly spread over [0,total].
// The positions follow a circle with circumference total.
func LinearLap(driver model.DriverID, num int, total, speed float64) []model.Sample {
	ret := make([]model.Sample, num)
	radius := total / (2 * math.Pi)
	for i := range ret {
		d := 0.0
		if num > 1 {
			d = total * float64(i) / float64(num-1)
		}
		angle := d / radius
		ret[i] = model.Sample{
			Distance: d,
			X:        radius * math.Cos(angle),
			Y:        radius * math.Sin(angle),
			Speed:    speed,
			Driver:   driver,
		}
	}
	return ret
}

// SpeedProfile sets the speed of each sample by distance.
func SpeedProfile(samples []model.Sample, f func(d float64) float64) []model.Sample {
	ret := make([]model.Sample, len(samples))
	for i := range samples {
		ret[i] = samples[i]
		ret[i].Speed = f(samples[i].Distance)
	}
	return ret
}

// Pooled concatenates the samples of driver a and driver b.
func Pooled(a, b []model.Sample) []model.Sample {
	ret := make([]model.Sample, 0, len(a)+len(b))
	ret = append(ret, a...)
	return append(ret, b...)
}

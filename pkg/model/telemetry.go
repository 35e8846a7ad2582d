package model

import (
	"fmt"
	"strings"
	"time"
)

// DriverID is the three letter abbreviation of a driver, e.g. "NOR".
type DriverID string

func (d DriverID) Normalized() DriverID {
	return DriverID(strings.ToUpper(strings.TrimSpace(string(d))))
}

// SessionRef identifies a single session of an event.
type SessionRef struct {
	Season      int
	Event       string
	SessionType string // short code: FP1, FP2, FP3, SQ, S, Q, R
}

func (r SessionRef) String() string {
	return fmt.Sprintf("%d %s %s", r.Season, r.Event, r.SessionType)
}

type Session struct {
	Key         int
	MeetingKey  int
	Name        string
	Type        string
	Season      int
	Country     string
	Location    string
	Circuit     string
	Start       time.Time
	End         time.Time
	SessionType string // the short code this session was resolved from
}

type Lap struct {
	Driver       DriverID
	DriverNumber int
	Number       int
	Start        time.Time
	Duration     time.Duration
	PitOut       bool
}

func (l Lap) End() time.Time {
	return l.Start.Add(l.Duration)
}

// Sample is one telemetry measurement of a driver's lap.
// Minisector and Winner are zero until the sample passed the segmenter
// respectively the dominance join.
type Sample struct {
	Distance   float64 // metres since lap start
	X          float64 // track coordinates as provided by the source
	Y          float64
	Speed      float64 // km/h
	Driver     DriverID
	Minisector int      // 1-based
	Winner     DriverID // fastest driver of the sample's minisector
}

// Comparison holds the fastest lap telemetry of two drivers in one session.
type Comparison struct {
	Session *Session
	Drivers [2]DriverID
	Laps    [2]*Lap
	Samples [2][]Sample
}

// Pooled returns the samples of both drivers, driver A first.
func (c *Comparison) Pooled() []Sample {
	ret := make([]Sample, 0, len(c.Samples[0])+len(c.Samples[1]))
	ret = append(ret, c.Samples[0]...)
	ret = append(ret, c.Samples[1]...)
	return ret
}

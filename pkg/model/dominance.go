package model

// Dominance maps a minisector index to the driver with the higher mean speed.
type Dominance map[int]DriverID

type MinisectorStats struct {
	Index     int
	MeanSpeed map[DriverID]float64
	Samples   map[DriverID]int
	Winner    DriverID
}

type Point struct {
	X float64
	Y float64
}

// PathSegment connects two consecutive samples (ordered by distance).
// Code is the numeric winner code of the minisector of the starting sample.
type PathSegment struct {
	From       Point
	To         Point
	Minisector int
	Winner     DriverID
	Code       int
}

package openf1

import "time"

// response types of https://api.openf1.org/v1, only the fields we use

type apiSession struct {
	SessionKey       int       `json:"session_key"`
	MeetingKey       int       `json:"meeting_key"`
	SessionName      string    `json:"session_name"`
	SessionType      string    `json:"session_type"`
	Year             int       `json:"year"`
	CountryName      string    `json:"country_name"`
	Location         string    `json:"location"`
	CircuitShortName string    `json:"circuit_short_name"`
	DateStart        time.Time `json:"date_start"`
	DateEnd          time.Time `json:"date_end"`
}

type apiDriver struct {
	DriverNumber int    `json:"driver_number"`
	NameAcronym  string `json:"name_acronym"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
}

type apiLap struct {
	DriverNumber int       `json:"driver_number"`
	LapNumber    int       `json:"lap_number"`
	DateStart    time.Time `json:"date_start"`
	LapDuration  *float64  `json:"lap_duration"`
	IsPitOutLap  bool      `json:"is_pit_out_lap"`
}

type apiCarData struct {
	Date     time.Time `json:"date"`
	Speed    float64   `json:"speed"`
	RPM      int       `json:"rpm"`
	NGear    int       `json:"n_gear"`
	Throttle int       `json:"throttle"`
	Brake    int       `json:"brake"`
}

type apiLocation struct {
	Date time.Time `json:"date"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Z    float64   `json:"z"`
}

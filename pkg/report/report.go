package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

// Summary is the data shown in the console report.
type Summary struct {
	Session  *model.Session
	Drivers  []model.DriverID // in code order
	Laps     []*model.Lap
	Stats    []model.MinisectorStats
	Wins     map[model.DriverID]int
	Output   string
	Segments int
}

// Write prints one row per minisector with the mean speed of each driver.
func Write(w io.Writer, s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if s.Session != nil {
		t.SetTitle(fmt.Sprintf("%d %s - %s", s.Session.Season, s.Session.Country, s.Session.Name))
	}

	header := table.Row{"Minisector"}
	for _, d := range s.Drivers {
		header = append(header, string(d))
	}
	header = append(header, "Delta", "Fastest")
	t.AppendHeader(header)

	for _, st := range s.Stats {
		row := table.Row{st.Index}
		for _, d := range s.Drivers {
			row = append(row, speed(st, d))
		}
		row = append(row, delta(st, s.Drivers), string(st.Winner))
		t.AppendRow(row)
	}

	if len(s.Laps) > 0 {
		lapRow := table.Row{"Lap"}
		for _, lap := range s.Laps {
			lapRow = append(lapRow, lapTime(lap))
		}
		t.AppendFooter(append(lapRow, "", ""))
	}
	footer := table.Row{"Won"}
	for _, d := range s.Drivers {
		footer = append(footer, s.Wins[d])
	}
	t.AppendFooter(append(footer, "", ""))

	colConfigs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for i := range s.Drivers {
		colConfigs = append(colConfigs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	colConfigs = append(colConfigs, table.ColumnConfig{Number: len(s.Drivers) + 2, Align: text.AlignRight})
	t.SetColumnConfigs(colConfigs)
	t.Render()

	if s.Output != "" {
		fmt.Fprintf(w, "%d segments written to %s\n", s.Segments, s.Output)
	}
}

func speed(st model.MinisectorStats, d model.DriverID) string {
	v, ok := st.MeanSpeed[d]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// delta is the mean speed of the first driver minus the second.
func delta(st model.MinisectorStats, drivers []model.DriverID) string {
	if len(drivers) != 2 {
		return ""
	}
	a, okA := st.MeanSpeed[drivers[0]]
	b, okB := st.MeanSpeed[drivers[1]]
	if !okA || !okB {
		return "-"
	}
	return fmt.Sprintf("%+.1f", a-b)
}

func lapTime(lap *model.Lap) string {
	if lap == nil {
		return "-"
	}
	d := lap.Duration
	minutes := int(d.Minutes())
	secs := d.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%d:%06.3f", minutes, secs)
}

// Package report renders attendance data as Excel workbooks for teachers.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"qrattend/internal/engine"
	"qrattend/internal/roster"
)

// Stats summarizes one day of attendance against the roster size.
type Stats struct {
	Total  int `json:"total"`
	OnTime int `json:"on_time"`
	Late   int `json:"late"`
	Absent int `json:"absent"`
}

// DailyStats computes today's headline numbers for the given records.
func DailyStats(records []engine.Record, rosterSize int) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Status == engine.StatusLate {
			s.Late++
		} else {
			s.OnTime++
		}
	}
	if rosterSize > s.Total {
		s.Absent = rosterSize - s.Total
	}
	return s
}

// Excel builds a two-sheet workbook: a per-student summary over all the
// provided records, and the detail rows for one calendar day.
func Excel(date string, records []engine.Record, students []roster.Student) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}
	if err := writeSummary(f, records, students); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Records"); err != nil {
		return nil, err
	}
	if err := writeDetail(f, date, records); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, records []engine.Record, students []roster.Student) error {
	headers := []string{"No", "Name", "Code", "Class", "Sessions", "On-time", "Late"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Summary", cell, h); err != nil {
			return err
		}
	}

	type tally struct{ sessions, onTime, late int }
	byStudent := make(map[string]tally, len(students))
	for _, r := range records {
		t := byStudent[r.StudentID]
		t.sessions++
		if r.Status == engine.StatusLate {
			t.late++
		} else {
			t.onTime++
		}
		byStudent[r.StudentID] = t
	}

	for i, s := range students {
		t := byStudent[s.ID]
		row := i + 2
		values := []any{i + 1, s.Name, s.Code, s.Class, t.sessions, t.onTime, t.late}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue("Summary", cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDetail(f *excelize.File, date string, records []engine.Record) error {
	headers := []string{"Time", "Name", "Code", "Class", "Schedule", "Status", "Late minutes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Records", cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, r := range records {
		if date != "" && r.Date != date {
			continue
		}
		values := []any{r.Time, r.StudentName, r.StudentCode, r.Class, r.ScheduleLabel, string(r.Status), r.LateMinutes}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue("Records", cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// Filename names the exported workbook after the report day.
func Filename(date string) string {
	return fmt.Sprintf("attendance_%s.xlsx", date)
}

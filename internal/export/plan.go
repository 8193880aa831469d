// Package export renders a client's plan and workout log as an Excel workbook
// the trainer can hand out or print.
package export

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"

	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetPlan     = "Weekly plan"
	SheetWorkouts = "Workouts"
)

var planHeader = []any{"Day", "#", "Exercise", "Sets", "Reps", "Rest", "Notes"}
var workoutHeader = []any{"Date", "Exercises", "Details"}

// PlanWorkbook builds the workbook for one client.
func PlanWorkbook(client *domain.Client, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetWorkouts); err != nil {
		return nil, err
	}

	if err := writePlanSheet(f, client, now); err != nil {
		f.Close()
		return nil, fmt.Errorf("plan sheet: %w", err)
	}
	if err := writeWorkoutSheet(f, client); err != nil {
		f.Close()
		return nil, fmt.Errorf("workouts sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writePlanSheet(f *excelize.File, client *domain.Client, now time.Time) error {
	sheet := SheetPlan
	status := engagement.Classify(client, now)

	if err := f.SetCellValue(sheet, "A1", client.Name); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Goal: %s, equipment: %s", client.Goal, client.Equipment))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Status on %s: %s", now.Format("2006-01-02"), status.Label))

	if err := f.SetSheetRow(sheet, "A5", &planHeader); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A5", "G5", style)

	row := 6
	for _, day := range domain.Weekdays {
		exercises := client.WeeklyPlan[day]
		if len(exercises) == 0 {
			continue
		}
		for i, e := range exercises {
			values := []any{string(day), i + 1, e.Name, e.Sets, e.Reps, e.Rest, e.Notes}
			if e.Sets == 0 {
				values[3] = ""
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	if row == 6 {
		f.SetCellValue(sheet, "A6", "No plan assigned")
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "C", 28)
	f.SetColWidth(sheet, "G", "G", 30)
	return nil
}

func writeWorkoutSheet(f *excelize.File, client *domain.Client) error {
	sheet := SheetWorkouts
	if err := f.SetSheetRow(sheet, "A1", &workoutHeader); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "C1", style)

	for i, w := range client.CompletedWorkouts {
		names := make([]string, 0, len(w.Exercises))
		for _, e := range w.Exercises {
			names = append(names, performed(e))
		}
		values := []any{w.Date, len(w.Exercises), strings.Join(names, "; ")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "C", "C", 50)
	return nil
}

func performed(e domain.PerformedExercise) string {
	s := e.Name
	if e.Sets > 0 && e.Reps > 0 {
		s += fmt.Sprintf(" %d×%d", e.Sets, e.Reps)
	}
	if e.WeightKg > 0 {
		s += fmt.Sprintf(" @ %gkg", e.WeightKg)
	}
	return s
}

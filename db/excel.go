package db

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"school-registry-go/models"
)

// GradesSheet is the sheet name of exported grade books
const GradesSheet = "Grades"

// ImportResult reports how an Excel import went
type ImportResult struct {
	Imported int `json:"importedCount"`
	Skipped  int `json:"skippedCount"`
}

// ImportStudentsFromExcel reads student names from column A of the first
// sheet and creates them. Row 1 is a header. Names that already exist are
// skipped, as are blank rows.
func (r *Registry) ImportStudentsFromExcel(file io.Reader) (ImportResult, error) {
	var result ImportResult

	f, err := excelize.OpenReader(file)
	if err != nil {
		return result, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Error closing excel file", "error", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return result, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return result, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		var name string
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if name == "" {
			slog.Debug("Skipping row without a student name", "row", i+1)
			continue
		}

		if err := r.CreateStudent(name); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Imported++
	}

	slog.Info("Imported students from excel", "sheet", sheetName, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// ExportGradesToExcel writes a grade book with one row per student and course.
// Ungraded cells are left empty. Students without courses still get a row.
func ExportGradesToExcel(students []models.Student, w io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Error closing excel file", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), GradesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	writeRow := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(GradesSheet, cell, &values)
	}

	if err := writeRow("Student", "Course", "Grade"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, student := range students {
		if len(student.Courses) == 0 {
			if err := writeRow(student.Name); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", student.Name, err)
			}
			continue
		}

		for _, course := range slices.Sorted(maps.Keys(student.Courses)) {
			values := []any{student.Name, course}
			if grade := student.Courses[course]; grade != nil {
				values = append(values, grade)
			}
			if err := writeRow(values...); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", student.Name, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

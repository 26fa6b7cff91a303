package controllers

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/xuri/excelize/v2"
)

const ExportSheet = "Employees"

var exportHeader = []any{
	"ID", "Last name", "First name", "Department", "Role",
	"Employment date", "County", "Phone", "Active",
}

// ExportEmployees writes the filtered listing as an xlsx workbook to w.
func (c *EmployeeController) ExportEmployees(ctx context.Context, params entity.FilterParams, w io.Writer) error {
	employees, err := c.GetEmployees(ctx, params)
	if err != nil {
		return err
	}

	f, err := BuildRoster(employees)
	if err != nil {
		c.deps.Logger.Error("Error building roster", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			c.deps.Logger.Warn("Error closing roster", slog.String("error", closeErr.Error()))
		}
	}()

	if err = f.Write(w); err != nil {
		c.deps.Logger.Error("Error writing roster", slog.String("error", err.Error()))
		return err
	}

	return nil
}

// BuildRoster lays out one header row and one row per employee.
// The workbook is closed before an error is returned.
func BuildRoster(employees []entity.Employee) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	if err = f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, err
	}

	if err = f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, emp := range employees {
		var cell string
		if cell, err = excelize.CoordinatesToCellName(1, i+2); err != nil {
			return nil, err
		}

		row := []any{
			emp.ID, emp.LastName, emp.FirstName, emp.Department, string(emp.Role),
			emp.EmploymentDate.Format(entity.DateLayout), emp.County, emp.PhoneNumber, emp.ItsActive,
		}
		if err = f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var lastCol string
	if lastCol, err = excelize.ColumnNumberToName(len(exportHeader)); err != nil {
		return nil, err
	}

	var bold int
	if bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}

	if err = f.SetCellStyle(ExportSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}

	if err = f.SetColWidth(ExportSheet, "A", lastCol, 18); err != nil {
		return nil, err
	}

	lastRow := len(employees) + 1
	if err = f.AutoFilter(ExportSheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return nil, err
	}

	return f, nil
}

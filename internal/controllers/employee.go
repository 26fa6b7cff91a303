package controllers

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = "id, last_name, first_name, password, department, role, employment_date, county, phone_number, its_active"

type EmployeeController struct {
	deps *Dependens
}

func NewEmployeeController(deps *Dependens) *EmployeeController {
	return &EmployeeController{
		deps: deps,
	}
}

func scanEmployee(row pgx.Row) (entity.Employee, error) {
	var emp entity.Employee
	var role string

	err := row.Scan(
		&emp.ID, &emp.LastName, &emp.FirstName, &emp.Password, &emp.Department,
		&role, &emp.EmploymentDate, &emp.County, &emp.PhoneNumber, &emp.ItsActive,
	)
	emp.Role = entity.Role(role)

	return emp, err
}

// GetEmployees lists the records matching every non-empty filter and orders
// them in memory by params.SortBy.
func (c *EmployeeController) GetEmployees(ctx context.Context, params entity.FilterParams) ([]entity.Employee, error) {
	query, args := newQueryBuilder("SELECT "+employeeColumns+" FROM users").
		whereEq(
			column{"role", strings.TrimSpace(params.Role)},
			column{"department", strings.TrimSpace(params.Department)},
		).
		whereContains(strings.TrimSpace(params.Search), "last_name", "first_name").
		build("ORDER BY id")

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying employees", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	defer rows.Close()

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	SortEmployees(employees, params.SortBy)

	return employees, nil
}

// SortEmployees orders employees in place. Equal keys keep their fetch order;
// an empty or unknown key leaves the slice untouched.
func SortEmployees(employees []entity.Employee, key entity.SortKey) {
	byName := func(a, b entity.Employee) int {
		return cmp.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName))
	}
	byDate := func(a, b entity.Employee) int {
		return a.EmploymentDate.Compare(b.EmploymentDate)
	}

	switch key {
	case entity.SortNameAsc:
		slices.SortStableFunc(employees, byName)
	case entity.SortNameDesc:
		slices.SortStableFunc(employees, func(a, b entity.Employee) int { return byName(b, a) })
	case entity.SortDateAsc:
		slices.SortStableFunc(employees, byDate)
	case entity.SortDateDesc:
		slices.SortStableFunc(employees, func(a, b entity.Employee) int { return byDate(b, a) })
	}
}

func (c *EmployeeController) GetEmployeeByID(ctx context.Context, id int64) (*entity.Employee, error) {
	row := c.deps.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM users WHERE id = $1", id)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Int64("id", id))
			return nil, ErrNotFound
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return &employee, nil
}

func (c *EmployeeController) CountByRole(ctx context.Context) (entity.RoleStats, error) {
	query := `SELECT COUNT(*) FILTER (WHERE role = $1),
                     COUNT(*) FILTER (WHERE role = $2),
                     COUNT(*) FILTER (WHERE role = $3),
                     COUNT(*) FILTER (WHERE department <> $4)
              FROM users`

	var stats entity.RoleStats
	if err := c.deps.DB.QueryRow(ctx, query,
		string(entity.RoleAdmin), string(entity.RoleSuport), string(entity.RoleTehnic), "IT",
	).Scan(&stats.Admin, &stats.Suport, &stats.Tehnic, &stats.NonIT); err != nil {
		c.deps.Logger.Error("Error counting employees", slog.String("error", err.Error()))
		return entity.RoleStats{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return stats, nil
}

// CreateEmployee inserts a record with a generated password. Every field is
// required.
func (c *EmployeeController) CreateEmployee(ctx context.Context, ne entity.NewEmployee) (*entity.Employee, error) {
	emp := entity.Employee{
		LastName:    strings.TrimSpace(ne.LastName),
		FirstName:   strings.TrimSpace(ne.FirstName),
		Department:  strings.TrimSpace(ne.Department),
		Role:        entity.Role(strings.TrimSpace(string(ne.Role))),
		County:      strings.TrimSpace(ne.County),
		PhoneNumber: strings.TrimSpace(ne.PhoneNumber),
		ItsActive:   ne.ItsActive,
	}
	rawDate := strings.TrimSpace(ne.EmploymentDate)

	required := []struct{ name, value string }{
		{"lastName", emp.LastName},
		{"firstName", emp.FirstName},
		{"department", emp.Department},
		{"role", string(emp.Role)},
		{"date", rawDate},
		{"county", emp.County},
		{"phone", emp.PhoneNumber},
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		c.deps.Logger.Warn("Required fields missing", slog.Any("fields", missing))
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	date, err := ParseEmploymentDate(rawDate)
	if err != nil {
		c.deps.Logger.Warn("Invalid employment date", slog.String("date", rawDate))
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	emp.EmploymentDate = date
	emp.Password = buildPassword(emp.FirstName, emp.LastName, date, emp.Role)

	query := `INSERT INTO users (last_name, first_name, password, department, role, employment_date, county, phone_number, its_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id`

	if err = c.deps.DB.QueryRow(ctx, query,
		emp.LastName, emp.FirstName, emp.Password, emp.Department, string(emp.Role),
		emp.EmploymentDate, emp.County, emp.PhoneNumber, emp.ItsActive,
	).Scan(&emp.ID); err != nil {
		c.deps.Logger.Error("Error inserting employee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	c.deps.Logger.Info("Employee created", slog.Int64("id", emp.ID), slog.String("name", emp.DisplayName()))

	return &emp, nil
}

// UpdateEmployee writes only the non-empty fields. With nothing to write it
// reports CategoryInfo and issues no statement.
func (c *EmployeeController) UpdateEmployee(ctx context.Context, id int64, fields entity.UpdateFields) (entity.Category, error) {
	if _, err := c.GetEmployeeByID(ctx, id); err != nil {
		return entity.CategoryError, err
	}

	var date any
	if raw := strings.TrimSpace(fields.EmploymentDate); raw != "" {
		parsed, err := time.Parse(entity.DateLayout, raw)
		if err != nil {
			c.deps.Logger.Warn("Invalid employment date", slog.String("date", raw))
			return entity.CategoryError, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidDate)
		}
		date = parsed
	}

	b := newQueryBuilder("UPDATE users").set(
		column{"last_name", strings.TrimSpace(fields.LastName)},
		column{"first_name", strings.TrimSpace(fields.FirstName)},
		column{"department", strings.TrimSpace(fields.Department)},
		column{"role", strings.TrimSpace(fields.Role)},
		column{"employment_date", date},
		column{"county", strings.TrimSpace(fields.County)},
		column{"phone_number", strings.TrimSpace(fields.PhoneNumber)},
	)

	if !b.hasAssignments() {
		return entity.CategoryInfo, nil
	}

	query, args := b.whereID(id).build("")

	if _, err := c.deps.DB.Exec(ctx, query, args...); err != nil {
		c.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		return entity.CategoryError, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return entity.CategorySuccess, nil
}

// DeleteEmployee removes the record and returns its display name.
func (c *EmployeeController) DeleteEmployee(ctx context.Context, id int64) (string, error) {
	emp, err := c.GetEmployeeByID(ctx, id)
	if err != nil {
		return "", err
	}

	if _, err = c.deps.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		c.deps.Logger.Error("Error deleting employee", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return emp.DisplayName(), nil
}

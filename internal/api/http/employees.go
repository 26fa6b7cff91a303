package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamanr/staff_portal/internal/controllers"
	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmployeesPage renders role statistics and the full listing.
func (s *Server) EmployeesPage(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Controllers.EmployeeController.CountByRole(r.Context())
	if err != nil {
		s.messageResponse(w, http.StatusInternalServerError, "Failed to load employees.", entity.CategoryError)
		return
	}

	employees, err := s.Controllers.EmployeeController.GetEmployees(r.Context(), entity.FilterParams{})
	if err != nil {
		s.messageResponse(w, http.StatusInternalServerError, "Failed to load employees.", entity.CategoryError)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{
		"view":        "employees",
		"active_page": "employees",
		"user":        employeeFrom(r.Context()),
		"stats":       stats,
		"employees":   employees,
	}, "success")
}

func (s *Server) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req entity.AddEmployeeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	emp, err := s.Controllers.EmployeeController.CreateEmployee(r.Context(), req.NewEmployee())
	if err != nil {
		switch {
		case errors.Is(err, controllers.ErrInvalidDate):
			s.messageResponse(w, http.StatusBadRequest, "Invalid employment date, expected YYYY-MM-DD.", entity.CategoryError)
		case errors.Is(err, controllers.ErrInvalidInput):
			s.messageResponse(w, http.StatusBadRequest, "All fields are required.", entity.CategoryError)
		default:
			s.messageResponse(w, http.StatusBadRequest, "The employee could not be added.", entity.CategoryError)
		}
		return
	}

	s.messageResponse(w, http.StatusOK, emp.DisplayName()+" was added successfully!", entity.CategorySuccess)
}

func (s *Server) FilterEmployees(w http.ResponseWriter, r *http.Request) {
	var req entity.FilterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	employees, err := s.Controllers.EmployeeController.GetEmployees(r.Context(), req.Params())
	if err != nil {
		s.messageResponse(w, http.StatusInternalServerError, "Failed to filter employees.", entity.CategoryError)
		return
	}

	s.httpResponse(w, http.StatusOK, employees, "success")
}

func (s *Server) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	var req entity.DeleteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	name, err := s.Controllers.EmployeeController.DeleteEmployee(r.Context(), int64(req.UserID))
	if err != nil {
		if errors.Is(err, controllers.ErrNotFound) {
			s.messageResponse(w, http.StatusNotFound, "Employee not found.", entity.CategoryError)
			return
		}

		s.messageResponse(w, http.StatusInternalServerError, "The employee could not be deleted.", entity.CategoryError)
		return
	}

	s.deps.Logger.Info("Employee deleted", slog.Int64("id", int64(req.UserID)), slog.Int64("by", employeeFrom(r.Context()).ID))

	s.messageResponse(w, http.StatusOK, name+" was deleted.", entity.CategorySuccess)
}

func (s *Server) EditEmployee(w http.ResponseWriter, r *http.Request) {
	var req entity.EditRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	category, err := s.Controllers.EmployeeController.UpdateEmployee(r.Context(), int64(req.ID), req.Fields())
	if err != nil {
		switch {
		case errors.Is(err, controllers.ErrNotFound):
			s.messageResponse(w, http.StatusNotFound, "Employee not found.", entity.CategoryError)
		case errors.Is(err, controllers.ErrInvalidInput):
			s.messageResponse(w, http.StatusBadRequest, "Invalid employment date, expected YYYY-MM-DD.", entity.CategoryError)
		default:
			s.messageResponse(w, http.StatusInternalServerError, "The employee could not be updated.", entity.CategoryError)
		}
		return
	}

	switch category {
	case entity.CategoryInfo:
		s.messageResponse(w, http.StatusOK, "No changes were made.", entity.CategoryInfo)
	default:
		s.messageResponse(w, http.StatusOK, "Employee updated successfully.", entity.CategorySuccess)
	}
}

func (s *Server) GetEmployeeByID(w http.ResponseWriter, r *http.Request) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		s.deps.Logger.Warn("Invalid employee id", slog.String("error", err.Error()))
		s.messageResponse(w, http.StatusBadRequest, "Invalid employee id.", entity.CategoryError)
		return
	}

	employee, err := s.Controllers.EmployeeController.GetEmployeeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, controllers.ErrNotFound) {
			s.messageResponse(w, http.StatusNotFound, "Employee not found.", entity.CategoryError)
			return
		}

		s.messageResponse(w, http.StatusInternalServerError, "Failed to get employee.", entity.CategoryError)
		return
	}

	s.httpResponse(w, http.StatusOK, employee, "success")
}

// bindFilterQuery reads the listing filter from query parameters. Every
// parameter is optional.
func bindFilterQuery(query url.Values) (entity.FilterRequest, error) {
	var params struct {
		FilterBy, FilterRole, FilterDepartment, SearchBar *string
	}

	bindings := []struct {
		name string
		dest **string
	}{
		{"filterBy", &params.FilterBy},
		{"filterRole", &params.FilterRole},
		{"filterDepartment", &params.FilterDepartment},
		{"searchBar", &params.SearchBar},
	}

	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return entity.FilterRequest{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	return entity.FilterRequest{
		FilterBy:         deref(params.FilterBy),
		FilterRole:       deref(params.FilterRole),
		FilterDepartment: deref(params.FilterDepartment),
		SearchBar:        deref(params.SearchBar),
	}, nil
}

// ExportEmployees downloads the filtered listing as an xlsx workbook.
func (s *Server) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	req, err := bindFilterQuery(r.URL.Query())
	if err != nil {
		s.deps.Logger.Warn("Invalid export query", slog.String("error", err.Error()))
		s.messageResponse(w, http.StatusBadRequest, "Invalid export filter.", entity.CategoryError)
		return
	}

	var buf bytes.Buffer
	if err = s.Controllers.EmployeeController.ExportEmployees(r.Context(), req.Params(), &buf); err != nil {
		s.messageResponse(w, http.StatusInternalServerError, "Failed to export employees.", entity.CategoryError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	w.WriteHeader(http.StatusOK)

	if _, err = buf.WriteTo(w); err != nil {
		s.deps.Logger.Error("Error writing export", slog.String("error", err.Error()))
	}
}

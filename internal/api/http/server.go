package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adamanr/staff_portal/internal/controllers"
	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type Server struct {
	deps        *controllers.Dependens
	Controllers *controllers.Controllers

	loginAttempts *prometheus.CounterVec
}

func NewServer(deps *controllers.Dependens, reg prometheus.Registerer) *Server {
	loginAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)
	reg.MustRegister(loginAttempts)

	return &Server{
		deps:          deps,
		Controllers:   controllers.NewControllers(deps),
		loginAttempts: loginAttempts,
	}
}

// Routes mounts every portal route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.LoginPage)
	r.Post("/", s.Login)
	r.Get("/logout", s.Logout)

	r.With(s.requireSession).Get(controllers.InProgressPath, s.InProgress)
	r.With(s.viewGate(entity.RoleAdmin)).Get(controllers.DashboardPath, s.Dashboard)

	r.Route("/employees", func(r chi.Router) {
		r.With(s.viewGate(entity.RoleAdmin)).Get("/", s.EmployeesPage)

		r.Group(func(r chi.Router) {
			r.Use(s.actionGate(entity.RoleAdmin))

			r.Post("/add", s.AddEmployee)
			r.Post("/filter", s.FilterEmployees)
			r.Delete("/delete", s.DeleteEmployee)
			r.Put("/edit", s.EditEmployee)
			r.Get("/export", s.ExportEmployees)
			r.Get("/{id}", s.GetEmployeeByID)
		})
	})
}

type employeeKey struct{}

func withEmployee(ctx context.Context, emp *entity.Employee) context.Context {
	return context.WithValue(ctx, employeeKey{}, emp)
}

// employeeFrom returns the employee a gate placed on the request context.
func employeeFrom(ctx context.Context) *entity.Employee {
	emp, _ := ctx.Value(employeeKey{}).(*entity.Employee)
	return emp
}

// sessionToken reads the session cookie, falling back to a bearer token.
func (s *Server) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(s.deps.Config.Session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// currentEmployee is nil for anonymous requests.
func (s *Server) currentEmployee(r *http.Request) (*entity.Employee, error) {
	emp, err := s.Controllers.AuthController.GetSession(r.Context(), s.sessionToken(r))
	if err != nil {
		if errors.Is(err, controllers.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}

	return emp, nil
}

// requireSession lets any authenticated employee through.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emp, err := s.currentEmployee(r)
		if err != nil {
			s.messageResponse(w, http.StatusInternalServerError, "Session store unavailable.", entity.CategoryError)
			return
		}

		if emp == nil {
			http.Redirect(w, r, controllers.LoginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(withEmployee(r.Context(), emp)))
	})
}

// viewGate redirects requests the access gate does not grant.
func (s *Server) viewGate(required entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			emp, err := s.currentEmployee(r)
			if err != nil {
				s.messageResponse(w, http.StatusInternalServerError, "Session store unavailable.", entity.CategoryError)
				return
			}

			decision := controllers.Authorize(emp, required)
			if !decision.Granted() {
				http.Redirect(w, r, decision.Redirect, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(withEmployee(r.Context(), emp)))
		})
	}
}

// actionGate answers JSON callers with 401 or 403 instead of a redirect.
func (s *Server) actionGate(required entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			emp, err := s.currentEmployee(r)
			if err != nil {
				s.messageResponse(w, http.StatusInternalServerError, "Session store unavailable.", entity.CategoryError)
				return
			}

			switch decision := controllers.Authorize(emp, required); decision.State {
			case controllers.Anonymous:
				s.messageResponse(w, http.StatusUnauthorized, "Authentication required.", entity.CategoryError)
				return
			case controllers.AuthenticatedNonMatching:
				s.deps.Logger.Warn("Access denied",
					slog.Int64("employee", emp.ID),
					slog.String("role", string(emp.Role)),
					slog.String("path", r.URL.Path),
				)
				s.messageResponse(w, http.StatusForbidden, "You do not have access to this page.", entity.CategoryError)
				return
			}

			next.ServeHTTP(w, r.WithContext(withEmployee(r.Context(), emp)))
		})
	}
}

func (s *Server) messageResponse(w http.ResponseWriter, status int, message string, category entity.Category) {
	respType := "success"
	if category == entity.CategoryError {
		respType = "error"
	}

	s.httpResponse(w, status, entity.MessageResponse{Message: message, Category: category}, respType)
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	s.writeJSON(w, status, map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	respData, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		s.deps.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.deps.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.messageResponse(w, http.StatusBadRequest, "Invalid request body.", entity.CategoryError)
		return false
	}

	return true
}

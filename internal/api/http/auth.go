package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adamanr/staff_portal/internal/controllers"
	"github.com/adamanr/staff_portal/internal/entity"
)

const (
	msgBadCredentials = "Incorrect username or password."
	msgInactive       = "This account is not active."
	msgBadRequest     = "Invalid request body."
)

// LoginPage sends authenticated employees to their home view.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	emp, err := s.currentEmployee(r)
	if err != nil {
		s.messageResponse(w, http.StatusInternalServerError, "Session store unavailable.", entity.CategoryError)
		return
	}

	if emp != nil {
		http.Redirect(w, r, controllers.HomePath(emp.Role), http.StatusFound)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{"view": "login"}, "success")
}

// Login verifies credentials, opens a session and redirects by role.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding login body", slog.String("error", err.Error()))
		s.writeJSON(w, http.StatusBadRequest, entity.LoginErrorResponse{ErrorMessage: msgBadRequest})
		return
	}

	emp, err := s.Controllers.AuthController.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, controllers.ErrInactive):
			s.loginAttempts.WithLabelValues("inactive").Inc()
			s.writeJSON(w, http.StatusUnauthorized, entity.LoginErrorResponse{ErrorMessage: msgInactive})
		case errors.Is(err, controllers.ErrNotFound):
			s.loginAttempts.WithLabelValues("rejected").Inc()
			s.writeJSON(w, http.StatusUnauthorized, entity.LoginErrorResponse{ErrorMessage: msgBadCredentials})
		default:
			s.loginAttempts.WithLabelValues("error").Inc()
			s.writeJSON(w, http.StatusInternalServerError, entity.LoginErrorResponse{ErrorMessage: "Login is unavailable, try again later."})
		}
		return
	}

	token, err := s.Controllers.AuthController.CreateSession(r.Context(), emp)
	if err != nil {
		s.loginAttempts.WithLabelValues("error").Inc()
		s.writeJSON(w, http.StatusInternalServerError, entity.LoginErrorResponse{ErrorMessage: "Login is unavailable, try again later."})
		return
	}

	s.loginAttempts.WithLabelValues("success").Inc()
	s.deps.Logger.Info("Employee logged in", slog.Int64("id", emp.ID), slog.String("role", string(emp.Role)))

	http.SetCookie(w, &http.Cookie{
		Name:     s.deps.Config.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.deps.Config.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.deps.Config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, controllers.HomePath(emp.Role), http.StatusSeeOther)
}

// Logout drops the session and clears the cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token := s.sessionToken(r); token != "" {
		if err := s.Controllers.AuthController.DeleteSession(r.Context(), token); err != nil {
			s.deps.Logger.Error("Error logging out", slog.String("error", err.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.deps.Config.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.Config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, controllers.LoginPath, http.StatusFound)
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	s.httpResponse(w, http.StatusOK, map[string]any{
		"view": "dashboard",
		"user": employeeFrom(r.Context()),
		"sections": map[string]string{
			"employees":  "/employees",
			"locations":  controllers.InProgressPath,
			"warehouses": controllers.InProgressPath,
			"tickets":    controllers.InProgressPath,
			"openings":   controllers.InProgressPath,
		},
	}, "success")
}

func (s *Server) InProgress(w http.ResponseWriter, r *http.Request) {
	s.httpResponse(w, http.StatusOK, map[string]any{
		"view": "in_progress",
		"user": employeeFrom(r.Context()).LastName,
	}, "success")
}

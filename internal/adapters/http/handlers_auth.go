package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"fithub/internal/application/orchestrators"
	"fithub/internal/application/session"
	"fithub/internal/domain/navigation"
)

// handleLanding handles GET /
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "FitHub - Transform your gym")
	s.render(w, r, http.StatusOK, "landing", LandingPage{
		Page:        p,
		Nav:         navigation.Compose(s.deps.Catalog.LandingMenu(), p.Identity, r.URL.Path),
		Menu:        overlay(r),
		SolidNavbar: landingNavbar(),
		Content:     s.deps.Catalog.Landing,
	})
}

// handleLoginPage handles GET /auth/login
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Sign in - FitHub")
	if p.Identity.IsAuthenticated() {
		http.Redirect(w, r, orchestrators.HomePath(p.Identity.Role), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", LoginPage{Page: p})
}

// handleLogin handles POST /auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	gate, ok := session.FromContext(ctx)
	if !ok {
		s.internalError(w, r, errors.New("no session gate in context"))
		return
	}

	input := orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	result, err := orchestrators.ExecuteLogin(ctx, input, orchestrators.LoginDeps{
		AccountStore: s.deps.Accounts,
		Credentials:  s.deps.Credentials,
		Events:       s.deps.Collector,
		Now:          s.deps.Now,
	})
	if err != nil {
		data := LoginPage{Page: s.page(r, "Sign in - FitHub"), Email: input.Email}
		var fieldErrs orchestrators.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			data.Errors = fieldErrs
			s.render(w, r, http.StatusUnprocessableEntity, "login", data)
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
			data.Alert = "Invalid email or password."
			s.render(w, r, http.StatusUnauthorized, "login", data)
		case errors.Is(err, orchestrators.ErrAccountLocked):
			data.Alert = "Too many failed attempts. Try again in a few minutes."
			s.render(w, r, http.StatusTooManyRequests, "login", data)
		default:
			s.internalError(w, r, err)
		}
		return
	}

	if err := gate.Establish(result.Token, result.Identity); err != nil {
		if revokeErr := s.deps.Credentials.Revoke(ctx, result.Token); revokeErr != nil {
			slog.WarnContext(ctx, "credential_revoke_failed", "error", revokeErr)
		}
		s.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, result.HomePath, http.StatusSeeOther)
}

// handleLogout handles POST /auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gate, ok := session.FromContext(ctx)
	if !ok {
		s.internalError(w, r, errors.New("no session gate in context"))
		return
	}

	id := gate.GetIdentity(ctx)
	if err := gate.Logout(ctx); err != nil {
		slog.WarnContext(ctx, "auth_event", "event", "logout_incomplete", "error", err)
	}
	slog.InfoContext(ctx, "auth_event", "event", "logout", "role", id.Role)
	s.deps.Collector.AuthEvent("logout")
}

// handleForgotPasswordPage handles GET /auth/forgot-password
func (s *Server) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "forgot-password", ForgotPasswordPage{Page: s.page(r, "Forgot password - FitHub")})
}

// handleForgotPassword handles POST /auth/forgot-password
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	data := ForgotPasswordPage{Page: s.page(r, "Forgot password - FitHub"), Email: r.FormValue("email")}
	err := orchestrators.ExecuteRequestPasswordHelp(r.Context(), orchestrators.PasswordHelpInput{Email: data.Email}, orchestrators.PasswordHelpDeps{
		AccountStore: s.deps.Accounts,
		Sender:       s.deps.Mail,
		BaseURL:      s.deps.BaseURL,
		ReplyTo:      s.deps.ReplyTo,
		GenerateID:   uuid.NewString,
		Now:          s.now,
	})

	var fieldErrs orchestrators.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		data.Errors = fieldErrs
		s.render(w, r, http.StatusUnprocessableEntity, "forgot-password", data)
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	data.Sent = true
	s.render(w, r, http.StatusOK, "forgot-password", data)
}

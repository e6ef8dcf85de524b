package web

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	accountStore "fithub/internal/adapters/storage/account"
	"fithub/internal/application/paging"
	"fithub/internal/domain/identity"
	"fithub/internal/domain/navigation"
)

// handleTrainerDashboard handles GET /trainer/dashboard
func (s *Server) handleTrainerDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "trainer-dashboard", TrainerDashboardPage{
		ShellPage: s.shellPage(r, navigation.TrainerMenu, "Trainer Dashboard"),
		Content:   s.deps.Catalog.Trainer,
	})
}

// handleTrainerPage handles GET /trainer/* for the sections whose builders
// are not part of this application; they render their heading in the shell.
func (s *Server) handleTrainerPage(w http.ResponseWriter, r *http.Request) {
	s.shellPlaceholder(w, r, navigation.TrainerMenu)
}

// handleAdminDashboard handles GET /admin/dashboard
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var total, members, trainers int
	for _, c := range []struct {
		role identity.Role
		n    *int
	}{{"", &total}, {identity.RoleMember, &members}, {identity.RoleTrainer, &trainers}} {
		n, err := s.deps.Accounts.Count(ctx, accountStore.ListFilter{Role: c.role})
		if err != nil {
			s.internalError(w, r, errors.WithStack(err))
			return
		}
		*c.n = n
	}

	s.render(w, r, http.StatusOK, "admin-dashboard", AdminDashboardPage{
		ShellPage:     s.shellPage(r, navigation.AdminMenu, "Dashboard"),
		TotalAccounts: humanize.Comma(int64(total)),
		Members:       humanize.Comma(int64(members)),
		Trainers:      humanize.Comma(int64(trainers)),
		Stats:         s.deps.Catalog.Admin.Stats,
	})
}

// handleAdminRoster lists the accounts holding role, one page at a time.
func (s *Server) handleAdminRoster(role identity.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		filter := accountStore.ListFilter{Role: role}

		total, err := s.deps.Accounts.Count(ctx, filter)
		if err != nil {
			s.internalError(w, r, errors.WithStack(err))
			return
		}

		info := paging.NewInfo(paging.Parse(r.URL.Query()), total)
		filter.Limit, filter.Offset = info.PerPage, info.Offset()
		accounts, err := s.deps.Accounts.List(ctx, filter)
		if err != nil {
			s.internalError(w, r, errors.WithStack(err))
			return
		}

		entry, _ := navigation.Find(navigation.AdminMenu, r.URL.Path)
		s.render(w, r, http.StatusOK, "admin-roster", AdminRosterPage{
			ShellPage: s.shellPage(r, navigation.AdminMenu, entry.Label),
			Accounts:  accounts,
			Pager:     paging.NewPager(r.URL, info),
		})
	}
}

// handleAdminPage handles GET /admin/*
func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	s.shellPlaceholder(w, r, navigation.AdminMenu)
}

// handleMemberDashboard handles GET /member/dashboard
func (s *Server) handleMemberDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "member-dashboard", MemberDashboardPage{
		Page:    s.page(r, "My Dashboard - FitHub"),
		Content: s.deps.Catalog.Member,
	})
}

// shellPlaceholder renders a menu section by its label. Paths outside the
// menu go back to the landing page.
func (s *Server) shellPlaceholder(w http.ResponseWriter, r *http.Request, menu []navigation.Entry) {
	entry, ok := navigation.Find(menu, r.URL.Path)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "shell-placeholder", s.shellPage(r, menu, entry.Label))
}

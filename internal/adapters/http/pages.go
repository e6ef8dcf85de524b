package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"fithub/internal/adapters/content"
	"fithub/internal/adapters/http/middleware"
	"fithub/internal/application/paging"
	"fithub/internal/application/session"
	"fithub/internal/domain/account"
	"fithub/internal/domain/disclosure"
	"fithub/internal/domain/identity"
	"fithub/internal/domain/navigation"
	"fithub/internal/domain/scroll"
)

// Page is what every template receives.
type Page struct {
	Title     string
	Path      string
	CSRFField template.HTML
	RequestID string
	Identity  identity.Identity
	Now       time.Time
}

// Overlay is a disclosure state plus the hrefs that drive it.
type Overlay struct {
	Open  bool
	Links disclosure.Links
}

// ShellPage is a page rendered inside the trainer or admin shell.
type ShellPage struct {
	Page
	Brand   string
	Badge   string
	Nav     []navigation.Link
	Sidebar Overlay
	Heading string
}

type LandingPage struct {
	Page
	Nav         []navigation.Link
	Menu        Overlay
	SolidNavbar bool
	Content     content.Landing
}

type LoginPage struct {
	Page
	Email  string
	Errors map[string]string
	Alert  string
}

type ForgotPasswordPage struct {
	Page
	Email  string
	Errors map[string]string
	Sent   bool
}

type TrainerDashboardPage struct {
	ShellPage
	Content content.TrainerDashboard
}

type AdminDashboardPage struct {
	ShellPage
	TotalAccounts string
	Members       string
	Trainers      string
	Stats         []content.Stat
}

// AdminRosterPage lists accounts of one role.
type AdminRosterPage struct {
	ShellPage
	Accounts []account.Account
	Pager    paging.Pager
}

type MemberDashboardPage struct {
	Page
	Content content.MemberDashboard
}

func (s *Server) page(r *http.Request, title string) Page {
	p := Page{
		Title:     title,
		Path:      r.URL.Path,
		CSRFField: csrf.TemplateField(r),
		RequestID: middleware.GetRequestID(r.Context()),
		Identity:  identity.Empty(),
		Now:       s.now(),
	}
	if gate, ok := session.FromContext(r.Context()); ok {
		p.Identity = gate.GetIdentity(r.Context())
	}
	return p
}

func overlay(r *http.Request) Overlay {
	state := disclosure.FromQuery(r.URL.Query(), disclosure.DefaultQueryKey)
	return Overlay{
		Open:  state.IsOpen(),
		Links: disclosure.LinksFor(r.URL, disclosure.DefaultQueryKey, state),
	}
}

func (s *Server) shellPage(r *http.Request, menu []navigation.Entry, title string) ShellPage {
	p := s.page(r, title)
	heading := title
	if entry, ok := navigation.Find(menu, r.URL.Path); ok {
		heading = entry.Label
	}
	return ShellPage{
		Page:    p,
		Brand:   "FitHub",
		Badge:   p.Identity.Role.Badge(),
		Nav:     navigation.Compose(menu, p.Identity, r.URL.Path),
		Sidebar: overlay(r),
		Heading: heading,
	}
}

// renderSignal stands in for the browser scroll signal during a server
// render: the page is always rendered at the top.
type renderSignal struct{}

func (renderSignal) Subscribe(func(offset float64)) func() {
	return func() {}
}

// landingNavbar reports whether the navbar starts in its solid treatment.
func landingNavbar() bool {
	chrome := scroll.NewChrome()
	chrome.Mount(renderSignal{})
	defer chrome.Unmount()
	return chrome.PastThreshold()
}

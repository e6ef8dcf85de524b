package browser_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"

	"fithub/internal/config"
	"fithub/internal/setup"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the app from the default configuration against a temp
// SQLite database and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := config.NewDefaultConfig()
	if err := config.Interpolate(conf); err != nil {
		t.Fatalf("failed to interpolate config: %v", err)
	}
	conf.Store.DSN = config.InterpolatedString(filepath.Join(t.TempDir(), "test.db"))
	conf.HTTP.RateLimit.Enabled = false

	ctx, cancel := context.WithCancel(context.Background())
	handler, cleanup, err := setup.NewHandlerFromConfig(ctx, conf)
	if err != nil {
		cancel()
		t.Fatalf("failed to build handler: %v", err)
	}
	srv := httptest.NewServer(handler)

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		cleanup()
		cancel()
	})

	return &testApp{BaseURL: srv.URL, PW: pw, Browser: browser}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the form and waits for the role's home page.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password, home string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/auth/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+home, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", home, err)
	}
}

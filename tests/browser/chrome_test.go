package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestLanding_NavbarTurnsSolidOnScroll scrolls past the threshold and back.
func TestLanding_NavbarTurnsSolidOnScroll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open landing page: %v", err)
	}

	solid := page.Locator("nav.navbar.solid")
	if n, _ := solid.Count(); n != 0 {
		t.Fatal("navbar should start transparent")
	}

	if _, err := page.Evaluate("window.scrollTo(0, 600)"); err != nil {
		t.Fatalf("scroll failed: %v", err)
	}
	if err := solid.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		t.Fatalf("navbar did not turn solid past the threshold: %v", err)
	}

	if _, err := page.Evaluate("window.scrollTo(0, 0)"); err != nil {
		t.Fatalf("scroll failed: %v", err)
	}
	if err := solid.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateDetached,
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("navbar stayed solid at the top: %v", err)
	}
}

// TestLanding_MobileMenuBackdropCloses opens the menu on a narrow viewport
// and dismisses it through the backdrop.
func TestLanding_MobileMenuBackdropCloses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	if err := page.SetViewportSize(375, 800); err != nil {
		t.Fatalf("failed to resize viewport: %v", err)
	}
	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open landing page: %v", err)
	}

	if err := page.Locator("a.menu-toggle").Click(); err != nil {
		t.Fatalf("failed to open menu: %v", err)
	}
	if !strings.Contains(page.URL(), "menu=open") {
		t.Fatalf("url after toggle = %s", page.URL())
	}
	if n, _ := page.Locator("#mobile-menu").Count(); n != 1 {
		t.Fatal("mobile menu should be rendered")
	}

	if err := page.Locator("[data-backdrop]").Click(playwright.LocatorClickOptions{
		Position: &playwright.Position{X: 10, Y: 790},
	}); err != nil {
		t.Fatalf("failed to click backdrop: %v", err)
	}
	if strings.Contains(page.URL(), "menu=open") {
		t.Errorf("menu still open after backdrop click: %s", page.URL())
	}
	if n, _ := page.Locator("#mobile-menu").Count(); n != 0 {
		t.Error("mobile menu should be gone")
	}
}

package integration

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebUIServed(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/ui", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	if !strings.Contains(html, "deskcalc") {
		t.Error("expected deskcalc brand in page")
	}
	if !strings.Contains(html, "/api/v1/sessions") {
		t.Error("expected the page to drive the sessions API")
	}
	for _, label := range []string{"7", "8", "9", "/", "="} {
		if !strings.Contains(html, `data-label="`+label+`"`) {
			t.Errorf("expected key %q in page", label)
		}
	}
}

func TestWebUIRootRedirect(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/ui" {
		t.Fatalf("expected redirect to /ui, got %s", loc)
	}
}

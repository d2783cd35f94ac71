package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/deskcalc/pkg/api"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/store"
	"github.com/lemonberrylabs/deskcalc/web"
)

// newTestApp builds the full server (API plus web UI) the way the binaries
// wire it, for in-process testing via app.Test.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	layout := keypad.Default()
	server := api.New(store.New(), layout)
	web.New(layout).Register(server.App())
	return server.App()
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response. It returns the status code and the decoded body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// createSession makes a session and returns its ID.
func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()

	status, body := doJSON(t, app, "POST", "/api/v1/sessions", nil)
	if status != 201 {
		t.Fatalf("create session failed with status %d: %v", status, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("create session: no id in response: %v", body)
	}
	return id
}

// pressKeys presses keypad keys by label on a session and returns the
// updated session body.
func pressKeys(t *testing.T, app *fiber.App, id string, keys ...string) map[string]interface{} {
	t.Helper()

	status, body := doJSON(t, app, "POST", "/api/v1/sessions/"+id+"/keys", map[string]interface{}{"keys": keys})
	if status != 200 {
		t.Fatalf("press keys failed with status %d: %v", status, body)
	}
	return body
}

// evaluate calls the stateless evaluate endpoint.
func evaluate(t *testing.T, app *fiber.App, expression string) (int, map[string]interface{}) {
	t.Helper()
	return doJSON(t, app, "POST", "/api/v1/evaluate", map[string]interface{}{"expression": expression})
}

// assertErrorCode checks the machine code in an error envelope.
func assertErrorCode(t *testing.T, body map[string]interface{}, code string) {
	t.Helper()

	errMap, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %v", body)
	}
	if got, _ := errMap["code"].(string); got != code {
		t.Errorf("expected error code %q, got %q (message: %v)", code, errMap["code"], errMap["message"])
	}
}

// assertBuffer checks the session display buffer in a response body.
func assertBuffer(t *testing.T, body map[string]interface{}, want string) {
	t.Helper()

	if got, _ := body["buffer"].(string); got != want {
		t.Fatalf("expected buffer %q, got %q (body: %v)", want, body["buffer"], body)
	}
}

// assertResult checks the formatted result of an evaluate response.
func assertResult(t *testing.T, status int, body map[string]interface{}, want string) {
	t.Helper()

	if status != 200 {
		t.Fatalf("expected status 200, got %d: %v", status, body)
	}
	if got, _ := body["result"].(string); got != want {
		t.Errorf("expected result %q, got %q", want, body["result"])
	}
}

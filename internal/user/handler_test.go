package user

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testJWTSecret = "test-secret"

func newTestApp() *fiber.App {
	handler := NewHandler(NewService(NewInMemoryRepository(nil)), testJWTSecret)

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			id, _ := strconv.Atoi(raw)
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": float64(id)}})
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, userID string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func registerJane(t *testing.T, app *fiber.App) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/register", fiber.Map{
		"email":      "jane@example.com",
		"password":   "secret123",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp()

	body := registerJane(t, app)
	if body["token"] == "" || body["token"] == nil {
		t.Errorf("expected token in response")
	}
	u, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body)
	}
	if u["password"] != nil {
		t.Errorf("password must not be returned, got %v", u["password"])
	}
	if u["role"] != RoleClient {
		t.Errorf("expected client role, got %v", u["role"])
	}

	// same email again
	resp, body := doJSON(t, app, "POST", "/api/register", fiber.Map{
		"email":      "jane@example.com",
		"password":   "other4567",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%v)", resp.StatusCode, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["email"] != "The email has already been taken." {
		t.Errorf("unexpected email error %v", errs)
	}
}

func TestRegisterEndpoint_TokenVerifiesWithConfiguredSecret(t *testing.T) {
	app := newTestApp()
	body := registerJane(t, app)

	raw, ok := body["token"].(string)
	if !ok || raw == "" {
		t.Fatalf("expected token string, got %v", body["token"])
	}
	// the handler must sign with the same key the jwt middleware verifies with
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil {
		t.Fatalf("issued token rejected by middleware key: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		t.Fatalf("expected valid claims, got %+v", tok)
	}
	if claims["user_id"] != float64(1) {
		t.Errorf("expected user_id 1, got %v", claims["user_id"])
	}
	if claims["role"] != RoleClient {
		t.Errorf("expected client role claim, got %v", claims["role"])
	}
}

func TestRegisterEndpoint_PasswordTooShort(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, "POST", "/api/register", fiber.Map{
		"email":      "jane@example.com",
		"password":   "short",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%v)", resp.StatusCode, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["password"] != "The password must be at least 8 characters." {
		t.Errorf("unexpected password error %v", errs)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp()
	registerJane(t, app)

	resp, body := doJSON(t, app, "POST", "/api/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "secret123",
	}, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["message"] != "Login successful" {
		t.Errorf("unexpected message %v", body["message"])
	}

	resp, body = doJSON(t, app, "POST", "/api/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "wrong",
	}, "")
	if resp.StatusCode != fiber.StatusUnauthorized || body["message"] != "Invalid email or password" {
		t.Errorf("expected 401 invalid credentials, got %d %v", resp.StatusCode, body)
	}
}

func TestAddressBookEndpoints(t *testing.T) {
	app := newTestApp()
	registerJane(t, app)

	resp, body := doJSON(t, app, "PUT", "/api/address-book", fiber.Map{
		"address":     "123 Main St",
		"city":        "Douala",
		"country":     "Cameroon",
		"postal_code": "00237",
	}, "1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["message"] != "Address updated successfully" {
		t.Errorf("unexpected message %v", body["message"])
	}

	resp, body = doJSON(t, app, "GET", "/api/address-book", nil, "1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["city"] != "Douala" || body["postal_code"] != "00237" {
		t.Errorf("unexpected address book %v", body)
	}

	// partial payloads are rejected
	resp, _ = doJSON(t, app, "PUT", "/api/address-book", fiber.Map{"address": "123 Main St"}, "1")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestProfileEndpoints(t *testing.T) {
	app := newTestApp()
	registerJane(t, app)

	resp, body := doJSON(t, app, "PUT", "/api/profile", fiber.Map{"phone": "0700000000"}, "1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["phone"] != "0700000000" {
		t.Errorf("expected updated phone, got %v", body["phone"])
	}
	if body["first_name"] != "Jane" {
		t.Errorf("untouched fields must survive, got %v", body)
	}

	resp, body = doJSON(t, app, "GET", "/api/user", nil, "1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["email"] != "jane@example.com" {
		t.Errorf("unexpected profile %v", body)
	}
}

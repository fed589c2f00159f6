package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"productr/db"
	"productr/models"
	"productr/otp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureSender records outbound mail instead of talking to a relay.
type captureSender struct {
	mu       sync.Mutex
	messages []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (s *captureSender) Send(to, subject, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, capturedMail{To: to, Subject: subject, Body: body})
}

func (s *captureSender) last() (capturedMail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return capturedMail{}, false
	}
	return s.messages[len(s.messages)-1], true
}

func setupTestApp(t *testing.T) (*fiber.App, *captureSender) {
	t.Helper()

	var err error
	db.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %s", err)
	}
	if err := db.DB.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %s", err)
	}

	sender := &captureSender{}
	app := fiber.New()
	SetupRoutes(app, otp.NewStore(5*time.Minute), sender)
	return app, sender
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %s", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %s", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %s", err)
	}
}

func seedProduct(t *testing.T, owner, name, status string, createdAt time.Time) models.Product {
	t.Helper()
	p := models.Product{
		Name:          name,
		Category:      "Foods",
		QuantityStock: "10",
		Mrp:           "100",
		SellingPrice:  "80",
		BrandName:     "Acme",
		IsReturnable:  "Yes",
		Images:        []string{"data:image/png;base64,AAAA"},
		Status:        status,
		UserEmail:     owner,
		CreatedAt:     createdAt,
	}
	if err := db.DB.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed product: %s", err)
	}
	return p
}

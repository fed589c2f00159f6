package routes

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"productr/mailer"
	"productr/otp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS already filtered the origin
	},
}

// Connected dashboard clients with mutex for thread safety
var clients = make(map[*websocket.Conn]bool)
var events = make(chan []byte, 100) // Buffered channel to prevent blocking
var mutex = &sync.Mutex{}
var validate = validator.New()

// Handler collaborators, set once by SetupRoutes.
var (
	otpStore *otp.Store
	mail     mailer.Sender
)

func SetupRoutes(app *fiber.App, codes *otp.Store, sender mailer.Sender) {
	otpStore = codes
	mail = sender

	wsHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.S().Errorf("websocket upgrade error: %s", err)
			return
		}
		defer conn.Close()

		mutex.Lock()
		clients[conn] = true
		mutex.Unlock()
		zap.S().Infof("dashboard client connected: %s", conn.RemoteAddr())

		// Clients only listen; reads just detect disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					zap.S().Warnf("websocket read error: %s", err)
				}
				mutex.Lock()
				delete(clients, conn)
				mutex.Unlock()
				zap.S().Infof("dashboard client disconnected: %s", conn.RemoteAddr())
				break
			}
		}
	})

	// Push catalog events to all connected clients
	go func() {
		for event := range events {
			mutex.Lock()
			for client := range clients {
				if err := client.WriteMessage(websocket.TextMessage, event); err != nil {
					zap.S().Warnf("websocket write error: %s", err)
					client.Close()
					delete(clients, client)
				}
			}
			mutex.Unlock()
		}
	}()

	// Liveness markers
	app.Get("/", healthCheck)
	app.Get("/health", healthCheck)

	// Realtime catalog events
	app.Get("/ws", wsHandler)

	// Image upload route
	app.Post("/upload", uploadImage)

	// Auth handshake
	app.Post("/send-otp", sendOTP)
	app.Post("/verify-otp", verifyOTP)

	// Product lifecycle
	app.Get("/products/:email", listProducts)
	app.Post("/products", createProduct)
	app.Put("/products/:id", updateProduct)
	app.Patch("/products/:id/status", setProductStatus)
	app.Delete("/products/:id", deleteProduct)
}

func healthCheck(c *fiber.Ctx) error {
	return c.SendString("Productr API is running")
}

// broadcastEvent fans a catalog change out to connected dashboards. Dropped
// when nobody is draining the channel fast enough.
func broadcastEvent(eventType string, product interface{}) {
	payload, err := json.Marshal(fiber.Map{
		"type":    eventType,
		"product": product,
	})
	if err != nil {
		return
	}
	select {
	case events <- payload:
	default:
	}
}

// Image upload handler
func uploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to get uploaded file",
		})
	}

	// Generate unique filename
	ext := filepath.Ext(file.Filename)
	uniqueID := uuid.New().String()
	filename := uniqueID + ext
	filepath := "./uploads/" + filename

	// Save the file
	if err := c.SaveFile(file, filepath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save file",
		})
	}

	// Return the file path that can be stored in the database
	return c.JSON(fiber.Map{
		"filename": filename,
		"path":     "/uploads/" + filename,
	})
}

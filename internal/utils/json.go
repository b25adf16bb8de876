package utils

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// SafeJSONParse parses JSON safely
func SafeJSONParse(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// WriteWait bounds a single websocket write so a stalled peer cannot hold the write lock.
const WriteWait = 10 * time.Second

// SendJSON writes a JSON payload to a WebSocket connection.
// Fiber's websocket conn is not safe for concurrent writes; mu serializes them.
func SendJSON(mu *sync.Mutex, c *websocket.Conn, payload interface{}) error {
	mu.Lock()
	defer mu.Unlock()
	if err := c.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.WriteJSON(payload)
}

// LogError logs an error if it's not nil
func LogError(err error, context string) {
	if err != nil {
		slog.Error("Error", "context", context, "error", err)
	}
}

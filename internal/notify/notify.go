// Package notify holds the single pending user-facing message.
package notify

import "sync"

// Messages shown after store mutations.
const (
	Added   = "✅ Todo Added Successfully!"
	Deleted = "🗑️ Todo Deleted!"
)

// Controller is a one-slot notification: showing a new message replaces the
// current one, there is no backlog.
type Controller struct {
	mu      sync.Mutex
	message string
	visible bool
}

// Show sets the message and makes it visible.
func (c *Controller) Show(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = message
	c.visible = true
}

// Dismiss hides the message. The text is kept until the next Show.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
}

func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Package notify renders toast-style notifications and redirects for a terminal.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Console writes notifications as single lines to W.
// Redirects are rendered as the command the user should run next.
type Console struct {
	mu sync.Mutex
	W  io.Writer
	// Routes maps redirect paths to commands; unknown paths are printed as-is.
	Routes map[string]string
}

// NewConsole returns a Console with the default route table.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w, Routes: map[string]string{
		"/login":  "bf login",
		"/signup": "bf signup",
		"/":       "bf posts",
	}}
}

func (c *Console) Success(title, description string) { c.line("ok", title, description) }

func (c *Console) Error(title, description string) { c.line("error", title, description) }

// Redirect tells the user where to go next.
func (c *Console) Redirect(path string) {
	target := path
	if cmd, ok := c.Routes[path]; ok {
		target = cmd
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.W, "-> run `%s`\n", target)
}

func (c *Console) line(kind, title, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if description == "" {
		fmt.Fprintf(c.W, "[%s] %s\n", kind, title)
		return
	}
	fmt.Fprintf(c.W, "[%s] %s: %s\n", kind, title, description)
}

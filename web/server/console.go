package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

const defaultConsoleLimit = 200

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "notice", "warning", "error"
}

// Console keeps the most recent log messages for the browser console
type Console struct {
	mu       sync.Mutex
	limit    int
	messages []ConsoleMessage
}

// NewConsole creates a console that keeps at most limit messages
func NewConsole(limit int) *Console {
	if limit < 1 {
		limit = defaultConsoleLimit
	}
	return &Console{limit: limit}
}

// Add records a message, dropping the oldest one when full
func (c *Console) Add(level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == c.limit {
		copy(c.messages, c.messages[1:])
		c.messages = c.messages[:c.limit-1]
	}
	c.messages = append(c.messages, ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	})
}

// Messages returns a copy of the recorded messages, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// WebLogger forwards to a regular logger and mirrors formatted messages to a Console
type WebLogger struct {
	log.Logger
	console *Console
}

// NewWebLogger wraps base so that its formatted messages also reach console
func NewWebLogger(base log.Logger, console *Console) log.Logger {
	return &WebLogger{Logger: base, console: console}
}

func (wl *WebLogger) Infof(format string, args ...interface{}) {
	wl.Logger.Infof(format, args...)
	wl.record("info", format, args...)
}

func (wl *WebLogger) Noticef(format string, args ...interface{}) {
	wl.Logger.Noticef(format, args...)
	wl.record("notice", format, args...)
}

func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	wl.Logger.Warningf(format, args...)
	wl.record("warning", format, args...)
}

func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.Logger.Errorf(format, args...)
	wl.record("error", format, args...)
}

func (wl *WebLogger) record(level, format string, args ...interface{}) {
	if wl.console == nil {
		return
	}
	wl.console.Add(level, fmt.Sprintf(format, args...))
}

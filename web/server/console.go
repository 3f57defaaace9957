package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
)

// ConsoleMessage is one line of render output shown in the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// WebLogger is a core.Logger that mirrors render output to glog and to the
// client of one render
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for renderID. consoleChan may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf logs at info level
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.log("info", format, args...)
}

// Warnf logs at warning level
func (wl *WebLogger) Warnf(format string, args ...interface{}) {
	wl.log("warning", format, args...)
}

func (wl *WebLogger) log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	line := strings.TrimSuffix(message, "\n")
	if level == "warning" {
		glog.WarningDepth(2, "[", wl.renderID, "] ", line)
	} else {
		glog.InfoDepth(2, "[", wl.renderID, "] ", line)
	}

	if wl.consoleChan == nil {
		return
	}
	// Never block the render on a slow client
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: level}:
	default:
	}
}

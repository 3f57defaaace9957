package renderer

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// glogLogger implements core.Logger on top of glog's INFO log
type glogLogger struct{}

func (glogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// NewGlogLogger creates a logger that writes to glog
func NewGlogLogger() core.Logger {
	return glogLogger{}
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() core.Logger {
	return core.LoggerFunc(func(string, ...interface{}) {})
}

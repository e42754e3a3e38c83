package capture

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// PanicMessage renders a recovered value with the location that panicked,
// e.g. "Error: boom (scene.go:42)". It must be called directly from the
// deferred function that recovered.
func PanicMessage(r any) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	loc := "unknown"
	for {
		fr, more := frames.Next()
		if fr.Function != "" && !strings.HasPrefix(fr.Function, "runtime.") {
			loc = fmt.Sprintf("%s:%d", filepath.Base(fr.File), fr.Line)
			break
		}
		if !more {
			break
		}
	}
	return fmt.Sprintf("Error: %v (%s)", r, loc)
}

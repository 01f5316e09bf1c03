// internal/recovery/recovery.go
// Package recovery turns panics into a fatal report and a non-zero exit.
package recovery

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Replaced in tests
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandlePanic should be deferred at the top of main().
// It reports the panic with its stack trace and exits with code 1.
func HandlePanic() {
	if r := recover(); r != nil {
		fatal(r, nil)
	}
}

// HandlePanicFunc is HandlePanic with a cleanup step run before exiting,
// used where a panic would otherwise leave a device open or a note sounding:
//
//	defer recovery.HandlePanicFunc(func() {
//		_ = sess.Close()
//	})
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		fatal(r, cleanup)
	}
}

func fatal(r any, cleanup func()) {
	_, _ = fmt.Fprintf(stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
	if cleanup != nil {
		cleanup()
	}
	exit(1)
}

//go:build !windows

package opener

import (
	"os/exec"
	"runtime"
)

// handlerArgv builds the URL handler invocation.
var handlerArgv = func(ref string) []string {
	if runtime.GOOS == "darwin" {
		return []string{"open", ref}
	}
	return []string{"xdg-open", ref}
}

// openURL starts the handler unbound from any context; the opened document
// outlives the capture that produced it.
func openURL(ref string) error {
	argv := handlerArgv(ref)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// the handler detaches; reap it without blocking the caller
	go func() { _ = cmd.Wait() }()
	return nil
}

package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.Opener = (*Opener)(nil)

// Opener opens files in the platform's default application.
type Opener struct {
	goos  string
	start func(cmd *exec.Cmd) error
}

// NewOpener creates an opener for the running platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: (*exec.Cmd).Start}
}

// Open launches the default application for path without waiting
// for it to exit.
func (o *Opener) Open(ctx context.Context, path string) error {
	name, args, err := openCommand(o.goos, path)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// openCommand returns the launcher for goos.
func openCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

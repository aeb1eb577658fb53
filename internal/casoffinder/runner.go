// internal/casoffinder/runner.go
package casoffinder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultPath is the engine executable looked up on PATH when no explicit
// path is configured.
const DefaultPath = "cas-offinder"

// ErrExternalSearchFailure means the off-target search subprocess exited
// abnormally or produced no output file. The search is deterministic, so
// the run fails rather than retrying; a partial scan would yield falsely
// reassuring verdicts.
var ErrExternalSearchFailure = errors.New("external search failed")

// Runner invokes the Cas-OFFinder binary: `cas-offinder <request> <device>
// <output>`. Device is C (CPU), G (GPU), or A (accelerator).
type Runner struct {
	Path   string
	Device string
	Log    *zap.Logger
}

// Search performs the single synchronous engine call for a run.
func (r Runner) Search(ctx context.Context, requestPath, outputPath string) error {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}
	device := r.Device
	if device == "" {
		device = "C"
	}

	cmd := exec.CommandContext(ctx, path, requestPath, device, outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.Log.Debug("invoking off-target search",
		zap.String("exe", path),
		zap.String("device", device),
		zap.String("request", requestPath))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrExternalSearchFailure, path, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrExternalSearchFailure, path, err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: %s wrote no output: %v", ErrExternalSearchFailure, path, err)
	}
	return nil
}

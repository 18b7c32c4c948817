package emitter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/oasmcp/generator"
	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/parser"
)

// Messages reported by TSChecker.
const (
	MsgNoTSConfig       = "tsconfig.json not found"
	MsgNoNodeModules    = "node_modules not found - run 'npm install' before TypeScript compilation"
	MsgNoCompiler       = "TypeScript compiler not found - install with 'npm install -g typescript'"
	MsgCompileTimeout   = "TypeScript compilation timed out"
	MsgCompileFailed    = "TypeScript compilation failed:\n"
	MsgRemoteNotChecked = "compile check skipped for remote output location"
)

// TSChecker compiles an emitted adapter with the TypeScript compiler. It
// implements generator.OutputChecker.
type TSChecker struct {
	// Command is the compiler invocation run inside the unit directory.
	Command []string
	Logger  parser.Logger
}

var _ generator.OutputChecker = (*TSChecker)(nil)

// NewTSChecker returns a checker running npx tsc --noEmit.
func NewTSChecker() *TSChecker {
	return &TSChecker{Command: []string{"npx", "tsc", "--noEmit"}}
}

// Check implements generator.OutputChecker. Missing dependencies or a missing
// compiler are warnings; a failed or timed out compile is an error.
func (c *TSChecker) Check(ctx context.Context, dir string, timeout time.Duration) []issues.Issue {
	if IsRemote(dir) {
		return []issues.Issue{issues.Warning(dir, MsgRemoteNotChecked)}
	}
	if _, err := os.Stat(filepath.Join(dir, TSConfigFile)); err != nil {
		return []issues.Issue{issues.Error(dir, MsgNoTSConfig)}
	}
	if _, err := os.Stat(filepath.Join(dir, "node_modules")); err != nil {
		return []issues.Issue{issues.Warning(dir, MsgNoNodeModules)}
	}
	if len(c.Command) == 0 {
		return []issues.Issue{issues.Warning(dir, MsgNoCompiler)}
	}
	if _, err := exec.LookPath(c.Command[0]); err != nil {
		return []issues.Issue{issues.Warning(dir, MsgNoCompiler)}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := parser.OrNop(c.Logger).With("dir", dir)
	log.Debug("running compile check", "command", strings.Join(c.Command, " "))
	err := cmd.Run()
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return []issues.Issue{issues.Error(dir, MsgCompileTimeout)}
	case errors.Is(err, exec.ErrNotFound):
		return []issues.Issue{issues.Warning(dir, MsgNoCompiler)}
	}
	out := stderr.String()
	if strings.TrimSpace(out) == "" {
		// tsc reports diagnostics on stdout.
		out = stdout.String()
	}
	log.Warn("compile check failed", "error", err)
	return []issues.Issue{issues.Error(dir, "%s%s", MsgCompileFailed, strings.TrimRight(out, "\n"))}
}

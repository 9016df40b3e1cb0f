// Package envcheck verifies that a development machine has the toolchain,
// hooks and lint tools the project expects before committing.
package envcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// hookMarker identifies a hook script installed by pre-commit.
const hookMarker = "pre-commit.com"

const separator = "----------------------------------------"

// CommandRunner runs an external command and returns its trimmed stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// Settings configures the checks.
type Settings struct {
	MinGoVersion  string
	HookPath      string
	RequiredTools []string
	Timeout       time.Duration
}

// Check is one named validation step.
type Check struct {
	Name string
	Run  func(ctx context.Context) bool
}

// Validator runs the checks and prints a report.
type Validator struct {
	runner   CommandRunner
	settings Settings
	out      io.Writer
}

// New creates a Validator printing to out.
func New(runner CommandRunner, settings Settings, out io.Writer) *Validator {
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	return &Validator{runner: runner, settings: settings, out: out}
}

// Checks returns the validation steps in execution order.
func (v *Validator) Checks() []Check {
	return []Check{
		{Name: "Go version", Run: v.checkGoVersion},
		{Name: "pre-commit installation", Run: v.checkPreCommit},
		{Name: "Dependencies", Run: v.checkDependencies},
	}
}

// Validate runs every check, even after a failure, and reports whether all of
// them passed.
func (v *Validator) Validate(ctx context.Context) bool {
	allPassed := true
	fmt.Fprintln(v.out, "Running environment validation checks...")
	fmt.Fprintln(v.out, separator)

	for _, c := range v.Checks() {
		fmt.Fprintf(v.out, "\nChecking %s...\n", c.Name)
		if !c.Run(ctx) {
			allPassed = false
		}
	}

	fmt.Fprintln(v.out, "\n"+separator)
	if allPassed {
		fmt.Fprintln(v.out, "✅ All checks passed!")
	} else {
		fmt.Fprintln(v.out, "❌ Some checks failed. Please fix the issues before committing.")
	}
	return allPassed
}

func (v *Validator) run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.settings.Timeout)
	defer cancel()
	return v.runner.Run(ctx, name, args...)
}

func (v *Validator) errorf(format string, args ...any) bool {
	fmt.Fprintf(v.out, "Error: "+format+"\n", args...)
	return false
}

func (v *Validator) checkGoVersion(ctx context.Context) bool {
	out, err := v.run(ctx, "go", "env", "GOVERSION")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return v.errorf("go is not installed")
		}
		return v.errorf("go is not properly installed: %v", err)
	}

	current, ok := ToSemver(out)
	if !ok {
		return v.errorf("cannot parse Go version %q", out)
	}
	required, ok := ToSemver(v.settings.MinGoVersion)
	if !ok {
		return v.errorf("invalid minimum Go version %q", v.settings.MinGoVersion)
	}
	if semver.Compare(current, required) < 0 {
		return v.errorf("Go %s or higher is required (found %s)", v.settings.MinGoVersion, out)
	}

	fmt.Fprintf(v.out, "Go version: %s\n", out)
	return true
}

func (v *Validator) checkPreCommit(ctx context.Context) bool {
	out, err := v.run(ctx, "pre-commit", "--version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return v.errorf("pre-commit is not installed")
		}
		return v.errorf("pre-commit is not properly installed")
	}
	fmt.Fprintf(v.out, "pre-commit version: %s\n", out)
	return true
}

func (v *Validator) checkDependencies(ctx context.Context) bool {
	hook, err := os.ReadFile(v.settings.HookPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v.errorf("pre-commit hook file is missing")
		}
		return v.errorf("cannot read pre-commit hook file: %v", err)
	}
	if !strings.Contains(string(hook), hookMarker) {
		return v.errorf("pre-commit hook file is not properly configured")
	}

	for _, tool := range v.settings.RequiredTools {
		if _, err := v.run(ctx, tool, "--version"); err != nil {
			return v.errorf("%s is not installed", tool)
		}
	}

	fmt.Fprintln(v.out, "All dependencies and pre-commit hooks are properly configured")
	return true
}

var goVersionPattern = regexp.MustCompile(`^(?:go)?(\d+)(?:\.(\d+))?(?:\.(\d+))?([a-z]+\d*)?$`)

// ToSemver converts a Go version such as "go1.24.3", "1.24" or "go1.25rc1"
// into a semantic version string for comparison.
func ToSemver(goVersion string) (string, bool) {
	fields := strings.Fields(goVersion)
	if len(fields) == 0 {
		return "", false
	}
	m := goVersionPattern.FindStringSubmatch(strings.TrimPrefix(fields[0], "v"))
	if m == nil {
		return "", false
	}

	parts := []string{m[1], "0", "0"}
	if m[2] != "" {
		parts[1] = m[2]
	}
	if m[3] != "" {
		parts[2] = m[3]
	}
	v := "v" + strings.Join(parts, ".")
	if m[4] != "" {
		v += "-" + m[4]
	}
	return v, semver.IsValid(v)
}

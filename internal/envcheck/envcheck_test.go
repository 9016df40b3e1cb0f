package envcheck

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)
	if err, ok := f.errs[cmd]; ok {
		return "", err
	}
	return f.outputs[cmd], nil
}

func healthyRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{
			"go env GOVERSION":        "go1.24.2",
			"pre-commit --version":    "pre-commit 4.0.1",
			"golangci-lint --version": "golangci-lint has version 2.1.0",
			"gofumpt --version":       "v0.8.0",
		},
		errs: map[string]error{},
	}
}

func writeHook(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pre-commit")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func settings(hook string) Settings {
	return Settings{
		MinGoVersion:  "1.24",
		HookPath:      hook,
		RequiredTools: []string{"golangci-lint", "gofumpt"},
	}
}

func TestValidateAllPass(t *testing.T) {
	hook := writeHook(t, "#!/usr/bin/env bash\n# File generated by pre-commit: https://pre-commit.com\n")
	var out bytes.Buffer

	runner := healthyRunner()
	ok := New(runner, settings(hook), &out).Validate(context.Background())

	require.True(t, ok)
	assert.Equal(t, []string{
		"go env GOVERSION",
		"pre-commit --version",
		"golangci-lint --version",
		"gofumpt --version",
	}, runner.calls)
	report := out.String()
	assert.Contains(t, report, "Checking Go version...")
	assert.Contains(t, report, "Go version: go1.24.2")
	assert.Contains(t, report, "pre-commit version: pre-commit 4.0.1")
	assert.Contains(t, report, "All dependencies and pre-commit hooks are properly configured")
	assert.Contains(t, report, "✅ All checks passed!")
}

func TestValidateContinuesAfterFailure(t *testing.T) {
	hook := writeHook(t, "https://pre-commit.com\n")
	runner := healthyRunner()
	runner.outputs["go env GOVERSION"] = "go1.21.0"
	runner.errs["pre-commit --version"] = &exec.Error{Name: "pre-commit", Err: exec.ErrNotFound}
	var out bytes.Buffer

	ok := New(runner, settings(hook), &out).Validate(context.Background())

	require.False(t, ok)
	report := out.String()
	assert.Contains(t, report, "Error: Go 1.24 or higher is required (found go1.21.0)")
	assert.Contains(t, report, "Error: pre-commit is not installed")
	assert.Contains(t, report, "Checking Dependencies...")
	assert.Contains(t, report, "❌ Some checks failed.")
}

func TestDependencies(t *testing.T) {
	tests := []struct {
		name    string
		hook    string
		failing string
		want    string
	}{
		{name: "missing hook", hook: "", want: "Error: pre-commit hook file is missing"},
		{name: "foreign hook", hook: "#!/bin/sh\nmake lint\n", want: "Error: pre-commit hook file is not properly configured"},
		{name: "missing tool", hook: "pre-commit.com", failing: "gofumpt --version", want: "Error: gofumpt is not installed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hook := filepath.Join(t.TempDir(), "absent")
			if tc.hook != "" {
				hook = writeHook(t, tc.hook)
			}
			runner := healthyRunner()
			if tc.failing != "" {
				runner.errs[tc.failing] = errors.New("exit status 1")
			}
			var out bytes.Buffer

			v := New(runner, settings(hook), &out)
			assert.False(t, v.checkDependencies(context.Background()))
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestPreCommitBroken(t *testing.T) {
	runner := healthyRunner()
	runner.errs["pre-commit --version"] = errors.New("exit status 2")
	var out bytes.Buffer

	assert.False(t, New(runner, settings(""), &out).checkPreCommit(context.Background()))
	assert.Contains(t, out.String(), "Error: pre-commit is not properly installed")
}

func TestToSemver(t *testing.T) {
	tests := map[string]string{
		"go1.24.2":                "v1.24.2",
		"1.24":                    "v1.24.0",
		"go1.25rc1":               "v1.25.0-rc1",
		"go1.24.0 X:boringcrypto": "v1.24.0",
		"v1.23":                   "v1.23.0",
	}
	for in, want := range tests {
		got, ok := ToSemver(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "devel", "go"} {
		_, ok := ToSemver(bad)
		assert.False(t, ok, bad)
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"comment-tool/internal/commenttool"
	"comment-tool/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModePrecedence(t *testing.T) {
	tests := []struct {
		name string
		opts options
		want commenttool.Mode
	}{
		{name: "default", opts: options{}, want: commenttool.ModeExtract},
		{name: "scan wins over everything", opts: options{scan: true, scanNonASCII: true, scanBOM: true, removeBOM: true}, want: commenttool.ModeScanJapanese},
		{name: "non-ascii before bom", opts: options{scanNonASCII: true, scanBOM: true}, want: commenttool.ModeScanNonASCII},
		{name: "scan-bom before remove-bom", opts: options{scanBOM: true, removeBOM: true}, want: commenttool.ModeScanBOM},
		{name: "remove-bom before strip", opts: options{removeBOM: true, stripComments: true}, want: commenttool.ModeRemoveBOM},
		{name: "strip", opts: options{stripComments: true}, want: commenttool.ModeStripComments},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.opts.mode())
		})
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		DictionaryPath: filepath.Join(dir, "translations.json"),
		LogFile:        filepath.Join(dir, "translation.log"),
		LogLevel:       "info",
		SourceEncoding: "utf-8",
	}
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunExtractsIntoDictionary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeSource(t, filepath.Join(src, "a.c"), "int x = 1; // こんにちは\n")
	writeSource(t, filepath.Join(src, "nested", "b.hpp"), "/* クラス */\nclass B {};\n")
	writeSource(t, filepath.Join(src, "notes.txt"), "// テキスト\n")

	cfg := testConfig(dir)
	var stdout bytes.Buffer
	err := run(context.Background(), cfg, &options{directory: src, encoding: "utf-8"}, &stdout, io.Discard)
	require.NoError(t, err)

	raw, err := os.ReadFile(cfg.DictionaryPath)
	require.NoError(t, err)
	var dict map[string]string
	require.NoError(t, json.Unmarshal(raw, &dict))
	assert.Equal(t, map[string]string{"// こんにちは": "", "/* クラス */": ""}, dict)

	logged, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Found Japanese comment")
	assert.Contains(t, stdout.String(), "Found Japanese comment")
}

func TestRunExplicitFileOverridesDirectory(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.c")
	writeSource(t, one, "\ufeffint x;\n")
	writeSource(t, filepath.Join(dir, "two.c"), "\ufeffint y;\n")

	err := run(context.Background(), testConfig(dir), &options{removeBOM: true, file: one, directory: dir, encoding: "utf-8"}, io.Discard, io.Discard)
	require.NoError(t, err)

	got, err := os.ReadFile(one)
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", string(got))

	untouched, err := os.ReadFile(filepath.Join(dir, "two.c"))
	require.NoError(t, err)
	assert.Equal(t, "\ufeffint y;\n", string(untouched))
}

func TestRunMissingDirectoryWarns(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	err := run(context.Background(), testConfig(dir), &options{scan: true, directory: filepath.Join(dir, "nope"), encoding: "utf-8"}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No source files found!")
}

func TestRunRejectsUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), testConfig(dir), &options{directory: dir, encoding: "klingon"}, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestRootCommandFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DICTIONARY_PATH", filepath.Join(dir, "translations.json"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "translation.log"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SOURCE_ENCODING", "")
	writeSource(t, filepath.Join(dir, "a.cpp"), "// 日本語\n")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--scan", "--directory", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Found Japanese characters")

	_, err := os.Stat(filepath.Join(dir, "translations.json"))
	assert.True(t, os.IsNotExist(err), "scan mode must not write the dictionary")
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"extra"})
	require.Error(t, cmd.Execute())
}

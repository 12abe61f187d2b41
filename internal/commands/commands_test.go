package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerunddev/parsercache/internal/builtin"
	"github.com/gerunddev/parsercache/internal/cache"
	"github.com/gerunddev/parsercache/internal/config"
)

// newTestEnv isolates config and cache paths and builds an Env with the default stacks
func newTestEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()

	origConfig, origCache := config.ConfigPath, config.CacheFilePath
	config.ConfigPath = func() string { return filepath.Join(dir, "config.json") }
	config.CacheFilePath = func() string { return filepath.Join(dir, "cache.json") }
	t.Cleanup(func() {
		config.ConfigPath, config.CacheFilePath = origConfig, origCache
	})

	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "test.log")

	env, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestSetupRejectsUnknownParser(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "test.log")
	cfg.Stacks = map[string][]string{"md": {"nope"}}

	if _, err := Setup(cfg); !errors.Is(err, builtin.ErrUnknownParser) {
		t.Errorf("expected ErrUnknownParser, got %v", err)
	}
}

func TestParse(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "note.md")
	writeTestFile(t, path, "---\ntitle: Note\n---\nbody text")

	tests := []struct {
		name string
		in   string
		opts ParseOptions
		want string
	}{
		{
			name: "file by extension",
			opts: ParseOptions{Path: path},
			want: "\nbody text",
		},
		{
			name: "stdin uses default stack",
			in:   "---\ntitle: x\n---\nraw",
			opts: ParseOptions{Path: "-"},
			want: "---\ntitle: x\n---\nraw",
		},
		{
			name: "stdin with ext",
			in:   "---\ntitle: x\n---\nraw",
			opts: ParseOptions{Ext: "md"},
			want: "\nraw",
		},
		{
			name: "explicit stack",
			in:   "---\ntitle: x\n---\n  padded  ",
			opts: ParseOptions{Stack: []string{"matter", "trim"}},
			want: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Parse(context.Background(), env, strings.NewReader(tt.in), &out, tt.opts); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	env := newTestEnv(t)
	in := "---\ntitle: Note\n---\nbody"

	var out bytes.Buffer
	err := Parse(context.Background(), env, strings.NewReader(in), &out, ParseOptions{Ext: ".MD", JSON: true})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var got parseOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if got.Ext != "md" {
		t.Errorf("ext = %q, want md", got.Ext)
	}
	if got.Data["title"] != "Note" {
		t.Errorf("data = %v", got.Data)
	}
	if got.Content != "\nbody" {
		t.Errorf("content = %q", got.Content)
	}
	if got.OrigContent != in {
		t.Errorf("orig_content = %q, want the input", got.OrigContent)
	}
}

func TestParseDiff(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	if err := Parse(context.Background(), env, strings.NewReader("plain"), &out, ParseOptions{Diff: true}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "No changes" {
		t.Errorf("output = %q, want No changes", out.String())
	}

	out.Reset()
	if err := Parse(context.Background(), env, strings.NewReader("---\na: 1\n---\nbody"), &out, ParseOptions{Ext: "md", Diff: true}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if out.Len() == 0 || strings.Contains(out.String(), "No changes") {
		t.Errorf("expected a diff, got %q", out.String())
	}
}

func TestParseErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown stack parser", func(t *testing.T) {
		err := Parse(context.Background(), env, strings.NewReader("x"), &bytes.Buffer{}, ParseOptions{Stack: []string{"nope"}})
		if !errors.Is(err, builtin.ErrUnknownParser) {
			t.Errorf("expected ErrUnknownParser, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := Parse(context.Background(), env, nil, &bytes.Buffer{}, ParseOptions{Path: filepath.Join(t.TempDir(), "missing.md")})
		if err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("bad front matter", func(t *testing.T) {
		err := Parse(context.Background(), env, strings.NewReader("---\na: [x\n---\n"), &bytes.Buffer{}, ParseOptions{Ext: "md"})
		if err == nil || !strings.Contains(err.Error(), "front matter") {
			t.Errorf("expected a front matter error, got %v", err)
		}
	})
}

func TestStacks(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	if err := Stacks(&out, env); err != nil {
		t.Fatalf("Stacks failed: %v", err)
	}

	for _, want := range []string{"*", "md", "markdown", "matter", "noop", "trim", "html"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	if err := ConfigInit(&out, false); err != nil {
		t.Fatalf("ConfigInit failed: %v", err)
	}
	if _, err := os.Stat(config.ConfigPath()); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := ConfigInit(&out, false); err == nil {
		t.Error("expected ConfigInit to refuse to overwrite")
	}
	if err := ConfigInit(&out, true); err != nil {
		t.Errorf("ConfigInit with force failed: %v", err)
	}

	out.Reset()
	if err := ConfigShow(&out, env.Config); err != nil {
		t.Fatalf("ConfigShow failed: %v", err)
	}
	for _, want := range []string{config.ConfigPath(), `"debounce": "200ms"`, `"matter"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBatch(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.md"), "---\ntitle: A\n---\na")
	writeTestFile(t, filepath.Join(dir, "sub", "b.markdown"), "---\ntitle: B\n---\nb")
	writeTestFile(t, filepath.Join(dir, "c.txt"), "not parsed")

	var out bytes.Buffer
	if err := Batch(context.Background(), env, &out, dir, BatchOptions{}); err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if !strings.Contains(out.String(), "2 files parsed") {
		t.Errorf("output = %q", out.String())
	}

	c, err := cache.Load(config.CacheFilePath())
	if err != nil {
		t.Fatalf("failed to load saved cache: %v", err)
	}
	if len(c.Files) != 2 {
		t.Errorf("cache has %d entries, want 2", len(c.Files))
	}

	// Unchanged files are skipped on the next run unless forced
	out.Reset()
	if err := Batch(context.Background(), env, &out, dir, BatchOptions{}); err != nil {
		t.Fatalf("second Batch failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 files parsed, 2 skipped") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := Batch(context.Background(), env, &out, dir, BatchOptions{Force: true}); err != nil {
		t.Fatalf("forced Batch failed: %v", err)
	}
	if !strings.Contains(out.String(), "2 files parsed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBatchReportsFailures(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "good.md"), "---\ntitle: ok\n---\n")
	writeTestFile(t, filepath.Join(dir, "bad.md"), "---\ntitle: [x\n---\n")

	var out bytes.Buffer
	err := Batch(context.Background(), env, &out, dir, BatchOptions{})
	if err == nil {
		t.Fatal("expected Batch to report the failed file")
	}
	if !strings.Contains(out.String(), "bad.md") {
		t.Errorf("output should name the failed file:\n%s", out.String())
	}
}

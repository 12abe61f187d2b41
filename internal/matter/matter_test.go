package matter

import (
	"testing"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		front   string
		body    string
		ok      bool
	}{
		{
			name:    "basic",
			content: "---\ntitle: Front Matter\n---\nThis is content.",
			front:   "title: Front Matter",
			body:    "\nThis is content.",
			ok:      true,
		},
		{
			name:    "empty block",
			content: "---\n---\nbody",
			front:   "",
			body:    "\nbody",
			ok:      true,
		},
		{
			name:    "closing delimiter at end",
			content: "---\na: 1\n---",
			front:   "a: 1",
			body:    "",
			ok:      true,
		},
		{
			name:    "crlf",
			content: "---\r\na: 1\r\n---\r\nbody",
			front:   "a: 1",
			body:    "\nbody",
			ok:      true,
		},
		{
			name:    "longer dash line is not a delimiter",
			content: "---\na: 1\n----\nb: 2\n---\nbody",
			front:   "a: 1\n----\nb: 2",
			body:    "\nbody",
			ok:      true,
		},
		{
			name:    "no front matter",
			content: "# Title\n\ntext",
			body:    "# Title\n\ntext",
		},
		{
			name:    "unterminated",
			content: "---\ntitle: x\nno end",
			body:    "---\ntitle: x\nno end",
		},
		{
			name:    "delimiter only",
			content: "---",
			body:    "---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body, ok := Split(tt.content)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if front != tt.front {
				t.Errorf("front = %q, want %q", front, tt.front)
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data, body, err := Parse("---\ntitle: Front Matter\ntags:\n  - a\n  - b\n---\nThis is content.")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if data["title"] != "Front Matter" {
		t.Errorf("title = %v", data["title"])
	}
	tags, ok := data["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %#v", data["tags"])
	}
	if body != "\nThis is content." {
		t.Errorf("body = %q", body)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	data, body, err := Parse("plain")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty data, got %v", data)
	}
	if body != "plain" {
		t.Errorf("body = %q", body)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, _, err := Parse("---\ntitle: [unclosed\n---\nbody"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestParser(t *testing.T) {
	f := file.New("---\ntitle: Front Matter\n---\nThis is content.")
	f.Data["title"] = "old"
	f.Data["keep"] = true

	var gotErr error
	var calls int
	parser.Run(parser.Single(Parser), f, func(err error, _ *file.File) {
		calls++
		gotErr = err
	})

	if calls != 1 {
		t.Fatalf("callback fired %d times", calls)
	}
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if f.Content != "\nThis is content." {
		t.Errorf("Content = %q", f.Content)
	}
	if f.Data["title"] != "Front Matter" {
		t.Errorf("title = %v, want front matter value", f.Data["title"])
	}
	if f.Data["keep"] != true {
		t.Error("existing data key was dropped")
	}
}

func TestParserFailsOnBadYAML(t *testing.T) {
	f := file.New("---\ntitle: [unclosed\n---\n")

	var gotErr error
	parser.Run(parser.Single(Parser), f, func(err error, _ *file.File) {
		gotErr = err
	})
	if gotErr == nil {
		t.Error("expected parse failure")
	}
}

func TestRegister(t *testing.T) {
	r := Register(parser.NewRegistry())
	for _, ext := range DefaultExts {
		if r.Len(ext) != 1 {
			t.Errorf("%s stack has %d parsers, want 1", ext, r.Len(ext))
		}
	}

	r = Register(parser.NewRegistry(), "txt")
	if !r.Has("txt") || r.Has("md") {
		t.Error("Register with explicit exts should only register those")
	}
}

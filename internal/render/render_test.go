package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "heading",
			input:    "# Title",
			contains: []string{"<h1", "Title</h1>"},
		},
		{
			name:     "emphasis",
			input:    "some *em* and **strong**",
			contains: []string{"<em>em</em>", "<strong>strong</strong>"},
		},
		{
			name:     "table",
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "task list",
			input:    "- [x] done",
			contains: []string{`type="checkbox"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToHTML(tt.input)
			if err != nil {
				t.Fatalf("ToHTML failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestHTMLParser(t *testing.T) {
	f := file.New("# Hello")

	var gotErr error
	var calls int
	parser.Run(parser.Single(HTML), f, func(err error, _ *file.File) {
		calls++
		gotErr = err
	})

	if calls != 1 || gotErr != nil {
		t.Fatalf("calls = %d, err = %v", calls, gotErr)
	}
	if !strings.Contains(f.Content, "<h1") {
		t.Errorf("Content = %q, want rendered HTML", f.Content)
	}
}

func TestHTMLParserStopsOnEarlierFailure(t *testing.T) {
	boom := errors.New("boom")
	f := file.New("# Hello")

	var gotErr error
	stack := parser.Stack{
		parser.Func(func(*file.File) error { return boom }),
		HTML,
	}
	parser.Run(stack, f, func(err error, _ *file.File) {
		gotErr = err
	})

	if gotErr != boom {
		t.Errorf("err = %v, want %v", gotErr, boom)
	}
	if f.Content != "# Hello" {
		t.Errorf("HTML ran after a failure: %q", f.Content)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Heading\n\nBody text.", 0)
	if err != nil {
		t.Fatalf("Terminal failed: %v", err)
	}
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "Body text.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// Package matter extracts YAML front matter into a file's data.
package matter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
)

const delimiter = "---"

// DefaultExts are the extensions Register uses when none are given
var DefaultExts = []string{"md", "markdown"}

// Split separates a leading front-matter block from the body.
//
// The block opens with a first line of "---" and closes at the next line
// that is exactly "---". The body is everything after the closing
// delimiter, including the newline that ends it.
func Split(content string) (front string, body string, ok bool) {
	firstLine, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimRight(firstLine, " \t\r") != delimiter {
		return "", content, false
	}

	s := "\n" + rest
	offset := 0
	for {
		idx := strings.Index(s[offset:], "\n"+delimiter)
		if idx == -1 {
			return "", content, false
		}
		start := offset + idx
		end := start + 1 + len(delimiter)
		if end == len(s) || s[end] == '\n' || s[end] == '\r' {
			if start > 0 {
				front = strings.TrimSuffix(s[1:start], "\r")
			}
			return front, strings.TrimPrefix(s[end:], "\r"), true
		}
		offset = end
	}
}

// Parse splits content and decodes the front matter as a YAML mapping
func Parse(content string) (map[string]any, string, error) {
	front, body, ok := Split(content)
	if !ok {
		return map[string]any{}, content, nil
	}

	data := make(map[string]any)
	if strings.TrimSpace(front) == "" {
		return data, body, nil
	}

	if err := yaml.Unmarshal([]byte(front), &data); err != nil {
		return nil, content, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}

	return data, body, nil
}

// Parser merges front matter into f.Data and strips it from the content.
// Keys from the front matter replace keys already present in f.Data.
func Parser(f *file.File, next parser.Next) {
	data, body, err := Parse(f.Content)
	if err != nil {
		next(parser.Fail(err))
		return
	}

	if f.Data == nil {
		f.Data = make(map[string]any, len(data))
	}
	for k, v := range data {
		f.Data[k] = v
	}

	next(parser.Replace(body))
}

// Register adds Parser to the stacks for exts, or DefaultExts if none given
func Register(r *parser.Registry, exts ...string) *parser.Registry {
	if len(exts) == 0 {
		exts = DefaultExts
	}
	for _, ext := range exts {
		r.Register(ext, Parser)
	}
	return r
}

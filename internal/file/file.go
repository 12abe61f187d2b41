package file

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/copystructure"
)

// ErrInvalidInputKind is returned when Normalize is given something that is
// neither raw content nor a file-like value.
var ErrInvalidInputKind = errors.New("parsercache: input must be a string, []byte, file or map")

// File is the canonical record that flows through a parser stack
type File struct {
	Path    string
	Content string
	Data    map[string]any
	Ext     string

	// Attrs holds caller-supplied fields the pipeline passes through untouched
	Attrs map[string]any

	orig *Snapshot
}

// Snapshot is the state of a file before any parser ran
type Snapshot struct {
	Path    string
	Content string
	Data    map[string]any
	Ext     string
}

// New creates a normalized file holding content
func New(content string) *File {
	f := &File{Content: content}
	normalizeFile(f)
	return f
}

// Read loads a file from disk and normalizes it
func Read(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	f := &File{Path: path, Content: string(content)}
	normalizeFile(f)
	return f, nil
}

// Normalize turns raw input into a canonical file.
//
// Strings and byte slices produce a new file. A *File is updated in place and
// returned, so callers holding the pointer see the changes. Maps are read as
// partial files: path, content, ext, data and orig are recognized and every
// other key is kept in Attrs. The map receives the orig snapshot under "orig",
// so normalizing the same map again keeps the first snapshot. Other parse
// results land on the returned file, not the map.
func Normalize(input any) (*File, error) {
	switch v := input.(type) {
	case string:
		return New(v), nil
	case []byte:
		return New(string(v)), nil
	case *File:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *file.File", ErrInvalidInputKind)
		}
		normalizeFile(v)
		return v, nil
	case File:
		f := v
		normalizeFile(&f)
		return &f, nil
	case map[string]any:
		f, err := fromMap(v)
		if err != nil {
			return nil, err
		}
		normalizeFile(f)
		snap := f.orig.clone()
		v["orig"] = &snap
		return f, nil
	case nil:
		return nil, fmt.Errorf("%w: got nil", ErrInvalidInputKind)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidInputKind, input)
	}
}

// Orig returns a copy of the pre-parse snapshot. The copy can be modified
// freely; the snapshot held by the file never changes once captured.
func (f *File) Orig() (Snapshot, bool) {
	if f.orig == nil {
		return Snapshot{}, false
	}
	return f.orig.clone(), true
}

// HasOrig reports whether the snapshot has been captured
func (f *File) HasOrig() bool {
	return f.orig != nil
}

// NormalizeExt trims an extension key and strips leading dots, lower-cased
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimLeft(ext, ".")
	return strings.ToLower(ext)
}

// ExtOf returns the normalized extension of path
func ExtOf(path string) string {
	if path == "" {
		return ""
	}
	return NormalizeExt(filepath.Ext(path))
}

func normalizeFile(f *File) {
	if f.Data == nil {
		f.Data = make(map[string]any)
	}

	f.Ext = NormalizeExt(f.Ext)
	if f.Ext == "" {
		f.Ext = ExtOf(f.Path)
	}

	// First normalization wins; later calls must not touch the snapshot.
	if f.orig == nil {
		f.orig = f.snapshot()
	}
}

func (f *File) snapshot() *Snapshot {
	return &Snapshot{
		Path:    f.Path,
		Content: f.Content,
		Data:    copyData(f.Data),
		Ext:     f.Ext,
	}
}

func (s *Snapshot) clone() Snapshot {
	return Snapshot{
		Path:    s.Path,
		Content: s.Content,
		Data:    copyData(s.Data),
		Ext:     s.Ext,
	}
}

func copyData(data map[string]any) map[string]any {
	if data == nil {
		return make(map[string]any)
	}

	dup, err := copystructure.Copy(data)
	if err == nil {
		if m, ok := dup.(map[string]any); ok {
			return m
		}
	}

	// Values copystructure cannot walk (funcs, channels) are shared.
	return maps.Clone(data)
}

func fromMap(m map[string]any) (*File, error) {
	f := &File{}

	for key, value := range m {
		switch key {
		case "path":
			s, err := stringField(key, value)
			if err != nil {
				return nil, err
			}
			f.Path = s
		case "content":
			s, err := stringField(key, value)
			if err != nil {
				return nil, err
			}
			f.Content = s
		case "ext":
			s, err := stringField(key, value)
			if err != nil {
				return nil, err
			}
			f.Ext = s
		case "data":
			if value == nil {
				continue
			}
			data, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: field %q has type %T", ErrInvalidInputKind, key, value)
			}
			f.Data = data
		case "orig":
			switch s := value.(type) {
			case *Snapshot:
				if s != nil {
					snap := s.clone()
					f.orig = &snap
				}
			case Snapshot:
				snap := s.clone()
				f.orig = &snap
			default:
				return nil, fmt.Errorf("%w: field %q has type %T", ErrInvalidInputKind, key, value)
			}
		default:
			if f.Attrs == nil {
				f.Attrs = make(map[string]any)
			}
			f.Attrs[key] = value
		}
	}

	return f, nil
}

func stringField(key string, value any) (string, error) {
	switch s := value.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: field %q has type %T", ErrInvalidInputKind, key, value)
	}
}

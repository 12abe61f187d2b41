package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gerunddev/parsercache/internal/cache"
	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/logger"
	"github.com/gerunddev/parsercache/internal/parser"
)

// Runner parses every eligible file under a directory
type Runner struct {
	parsers         *parser.Parsers
	cache           *cache.Cache
	log             *logger.Logger
	excludePatterns []string
	force           bool
}

// NewRunner creates a new runner. A nil cache parses every file every time.
func NewRunner(p *parser.Parsers, c *cache.Cache) *Runner {
	return &Runner{
		parsers: p,
		cache:   c,
		log:     logger.Discard(),
	}
}

// SetLogger sets the logger for this runner
func (r *Runner) SetLogger(l *logger.Logger) {
	r.log = l
}

// SetExcludePatterns sets glob patterns for paths to leave alone
func (r *Runner) SetExcludePatterns(patterns []string) {
	r.excludePatterns = patterns
}

// SetForce makes the runner parse files the cache says are unchanged
func (r *Runner) SetForce(force bool) {
	r.force = force
}

// Result represents the result of a batch run
type Result struct {
	FilesProcessed int
	Skipped        int
	Errors         []error
	Files          []*file.File
	StartTime      time.Time
	EndTime        time.Time
}

// Run parses the files under dir whose extension has a registered stack
func (r *Runner) Run(ctx context.Context, dir string) (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
	}

	paths, err := ScanDirectory(dir, r.Exts(), r.excludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			result.EndTime = time.Now()
			return result, err
		}

		f, parsed, err := r.ParseFile(ctx, path)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
		case parsed:
			result.FilesProcessed++
			result.Files = append(result.Files, f)
		default:
			result.Skipped++
		}
	}

	result.EndTime = time.Now()
	r.log.BatchCompleted(dir, result.FilesProcessed, result.Skipped, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// ParseFile parses one file and records it in the cache. It reports
// parsed=false without error when the cache says the file is unchanged.
func (r *Runner) ParseFile(ctx context.Context, path string) (*file.File, bool, error) {
	if r.cache != nil && !r.force {
		changed, err := r.cache.HasChanged(path)
		if err != nil {
			r.log.FileError(path, err)
			return nil, false, err
		}
		if !changed {
			r.log.Skipped(path, "unchanged")
			return nil, false, nil
		}
	}

	f, err := file.Read(path)
	if err != nil {
		r.log.FileError(path, err)
		return nil, false, err
	}

	f, err = parser.Wait(ctx, func(cb parser.Callback) {
		r.parsers.Parse(f, cb)
	})
	if err != nil {
		r.log.FileError(path, err)
		return f, false, err
	}

	if r.cache != nil {
		if err := r.cache.Update(path, f); err != nil {
			r.log.FileError(path, err)
			return f, true, fmt.Errorf("failed to update cache: %w", err)
		}
	}

	return f, true, nil
}

// Forget drops path from the cache so its next change is parsed
func (r *Runner) Forget(path string) {
	if r.cache != nil {
		r.cache.Forget(path)
	}
}

// ExcludePatterns returns the patterns set with SetExcludePatterns
func (r *Runner) ExcludePatterns() []string {
	return r.excludePatterns
}

// Exts returns the extensions with a registered stack, without the default
func (r *Runner) Exts() []string {
	keys := r.parsers.Registry().Keys()
	return slices.DeleteFunc(keys, func(k string) bool {
		return k == parser.Wildcard
	})
}

// Excluded reports whether path, relative to its scan root, matches any pattern.
// Patterns are matched against the relative path and the base name.
func Excluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// ScanDirectory finds files under dir with one of exts, skipping hidden
// directories and anything matching excludePatterns
func ScanDirectory(dir string, exts []string, excludePatterns []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[file.NormalizeExt(ext)] = true
	}

	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || Excluded(rel, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if Excluded(rel, excludePatterns) {
			return nil
		}
		if wanted[file.ExtOf(path)] {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// String returns a human-readable summary of the batch result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Batch complete: %d files parsed, %d skipped, %d errors (took %v)",
		r.FilesProcessed,
		r.Skipped,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

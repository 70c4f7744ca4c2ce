// Package scan classifies files and directory trees in parallel.
package scan

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gubarz/sloclass/internal/lang"
	"github.com/gubarz/sloclass/internal/log"
	"github.com/gubarz/sloclass/internal/source"
)

// Result statuses.
const (
	StatusOK              = "ok"
	StatusMalformed       = "malformed"
	StatusInternal        = "internal"
	StatusUnknownLanguage = "unknown-language"
	StatusIO              = "io"
)

// FileResult is the outcome of classifying one file.
type FileResult struct {
	Path     string
	Language lang.Language
	Summary  source.Summary
	Err      error
}

// Status names the kind of failure, or StatusOK.
func (r FileResult) Status() string {
	switch {
	case r.Err == nil:
		return StatusOK
	case lang.IsUnknown(r.Err):
		return StatusUnknownLanguage
	case source.IsMalformed(r.Err):
		return StatusMalformed
	case source.IsInconsistent(r.Err):
		return StatusInternal
	default:
		return StatusIO
	}
}

// Index holds every file result in input order and the totals of the
// files that succeeded.
type Index struct {
	Files    []FileResult
	SLOC     int
	Physical int
	Failed   int
}

func newIndex(files []FileResult) *Index {
	idx := &Index{Files: files}
	for _, f := range files {
		if f.Err != nil {
			idx.Failed++
			continue
		}
		idx.SLOC += f.Summary.SLOC
		idx.Physical += f.Summary.Physical
	}
	return idx
}

// Options configures a Scanner.
type Options struct {
	// Language forces the language of every file when set.
	Language lang.Language
	Relaxed  bool
	// Jobs bounds the number of files classified at once.
	Jobs int
	// Exclude lists paths, path prefixes or base-name globs to skip while
	// walking directories.
	Exclude []string
}

// Scanner classifies files
type Scanner struct {
	opts Options
}

// NewScanner creates a new scanner
func NewScanner(opts Options) *Scanner {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Scanner{opts: opts}
}

type target struct {
	path     string
	language lang.Language
	err      error
}

// ScanPaths classifies every file named in paths or found below the
// directories in paths. A failing file is recorded in its FileResult; only
// a walk error or ctx ending stops the scan.
func (s *Scanner) ScanPaths(ctx context.Context, paths []string) (*Index, error) {
	var targets []target
	for _, p := range paths {
		found, err := s.collect(ctx, p)
		if err != nil {
			return nil, err
		}
		targets = append(targets, found...)
	}

	results := make([]FileResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Jobs)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if t.err != nil {
				results[i] = FileResult{Path: t.path, Err: t.err}
				observe(results[i], 0)
			} else {
				results[i] = s.ScanFile(t.path, t.language)
			}
			if err := results[i].Err; err != nil {
				log.Warn("file not classified",
					zap.String("file", t.path),
					zap.String("status", results[i].Status()),
					zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Trace(err)
	}
	return newIndex(results), nil
}

// collect lists the files to classify for one command-line path.
func (s *Scanner) collect(ctx context.Context, root string) ([]target, error) {
	info, err := os.Stat(root)
	if err != nil {
		return []target{{path: root, err: errors.Trace(err)}}, nil
	}
	if !info.IsDir() {
		l, err := s.language(root)
		return []target{{path: root, language: l, err: err}}, nil
	}

	var targets []target
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || s.excluded(path)) {
			log.Debug("skipping path", zap.String("path", path))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		detected, err := lang.Detect(path)
		if err != nil {
			log.Debug("skipping file of unknown language", zap.String("path", path))
			return nil
		}
		if s.opts.Language != "" {
			detected = s.opts.Language
		}
		targets = append(targets, target{path: path, language: detected})
		return nil
	})
	if err != nil {
		return nil, errors.Annotatef(err, "walking %s", root)
	}
	return targets, nil
}

func (s *Scanner) language(path string) (lang.Language, error) {
	if s.opts.Language != "" {
		return s.opts.Language, nil
	}
	return lang.Detect(path)
}

func (s *Scanner) excluded(path string) bool {
	base := filepath.Base(path)
	for _, ex := range s.opts.Exclude {
		ex = filepath.Clean(ex)
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
		if ok, _ := filepath.Match(ex, base); ok {
			return true
		}
	}
	return false
}

// ScanFile opens, decodes and classifies one file.
func (s *Scanner) ScanFile(path string, l lang.Language) FileResult {
	start := time.Now()
	res := FileResult{Path: path, Language: l}
	res.Summary, res.Err = drainFile(path, l, s.opts.Relaxed, nil)
	observe(res, time.Since(start).Seconds())
	return res
}

// Lines returns every logical line of one file.
func Lines(path string, l lang.Language, relaxed bool) ([]source.LogicalLine, source.Summary, error) {
	var lines []source.LogicalLine
	sum, err := drainFile(path, l, relaxed, func(ll source.LogicalLine) error {
		lines = append(lines, ll)
		return nil
	})
	return lines, sum, err
}

func drainFile(path string, l lang.Language, relaxed bool, fn func(source.LogicalLine) error) (source.Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return source.Summary{}, errors.Trace(err)
	}
	defer file.Close()

	src, err := source.Open(source.NewDecodingReader(file), l.Dialect(), source.Options{
		Relaxed: relaxed,
		Name:    path,
	})
	if err != nil {
		return source.Summary{}, err
	}
	sum, err := source.Drain(src, fn)
	if err != nil {
		return source.Summary{}, errors.Annotatef(err, "%s", path)
	}
	return sum, nil
}

// PhysicalLines returns the decoded physical lines of a file without their
// terminators.
func PhysicalLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(source.NewDecodingReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}

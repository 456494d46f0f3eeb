package node

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// DefaultSuffix is the file suffix that marks a status file.
const DefaultSuffix = ".txt"

// ErrNotText is returned for status files whose content is not valid UTF-8.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// Source produces the current set of node statuses.
type Source interface {
	Scan(ctx context.Context) ([]Status, error)
}

// Reader scans a status directory on every call to Scan.
type Reader struct {
	dir     string
	suffix  string
	logger  *logrus.Logger
	skipped atomic.Uint64
}

// NewReader creates a Reader for dir. Only entries ending in suffix are
// considered; an empty suffix means DefaultSuffix.
func NewReader(dir string, suffix string, logger *logrus.Logger) *Reader {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reader{
		dir:    dir,
		suffix: suffix,
		logger: logger,
	}
}

// Dir returns the directory being scanned.
func (r *Reader) Dir() string {
	return r.dir
}

// Skipped returns the total number of status files skipped because they
// could not be read, over the lifetime of the Reader.
func (r *Reader) Skipped() uint64 {
	return r.skipped.Load()
}

// Scan lists the status directory and reads every eligible file.
// A missing directory yields no statuses and no error. A file that cannot
// be read is logged and skipped; it never aborts the scan.
func (r *Reader) Scan(ctx context.Context) ([]Status, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("Status directory %s does not exist, reporting no nodes", r.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("could not list status directory %s: %w", r.dir, err)
	}

	statuses := make([]Status, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		filename := entry.Name()
		if !strings.HasSuffix(filename, r.suffix) {
			continue
		}

		st, err := r.readFile(filename)
		if err != nil {
			r.skipped.Add(1)
			r.logger.WithField("file", filename).Warnf("Skipping status file: %v", err)
			continue
		}
		statuses = append(statuses, st)
	}

	r.logger.Debugf("Scanned %s: %d status file(s)", r.dir, len(statuses))
	return statuses, nil
}

func (r *Reader) readFile(filename string) (Status, error) {
	path := filepath.Join(r.dir, filename)

	info, err := os.Stat(path)
	if err != nil {
		return Status{}, fmt.Errorf("could not stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Status{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return Status{}, fmt.Errorf("%s: %w", path, ErrNotText)
	}

	return Status{
		Name:    NameFromFile(filename, r.suffix),
		Content: string(data),
		ModTime: info.ModTime(),
	}, nil
}

// NameFromFile derives a node name from a status file name by stripping suffix.
func NameFromFile(filename string, suffix string) string {
	return strings.TrimSuffix(filepath.Base(filename), suffix)
}

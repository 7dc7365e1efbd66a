package filesystem

import (
	"os"

	"github.com/IvanShishkin/unixfiles/pkg/models"
	"go.uber.org/zap"
)

// Filesystem is the part of a go-billy filesystem the walker needs
type Filesystem interface {
	ReadDir(path string) ([]os.FileInfo, error)
	Lstat(filename string) (os.FileInfo, error)
	Join(elem ...string) string
}

// FileFunc receives every non-directory entry together with the metadata
// fetched for it. A non-nil error stops the walk.
type FileFunc func(path string, info os.FileInfo) error

// SkipFunc is called for every entry or directory the walker gives up on
type SkipFunc func(reason models.SkipReason, path string)

// WalkStats counts what the walker saw
type WalkStats struct {
	DirsListed    int
	DirsAbandoned int
	BadEntries    int
	StatFailures  int
	Files         int
}

// Walker enumerates directory trees without recursion. Pending directories
// live on a single stack: the last root is expanded first and the
// subdirectories of a directory are expanded in reverse listing order, while
// the files of a directory are reported in listing order as soon as it is
// listed. Symbolic links are never followed.
type Walker struct {
	fs     Filesystem
	logger *zap.Logger
	onSkip SkipFunc
	stats  WalkStats
}

// NewWalker creates a new filesystem walker
func NewWalker(fsys Filesystem, logger *zap.Logger) *Walker {
	return &Walker{
		fs:     fsys,
		logger: logger,
	}
}

// SetSkipCallback sets the hook called for every skipped entry
func (w *Walker) SetSkipCallback(fn SkipFunc) {
	w.onSkip = fn
}

// Stats returns the counters accumulated so far
func (w *Walker) Stats() WalkStats {
	return w.stats
}

// Walk expands every root and calls callback for each non-directory entry.
// Directories that cannot be listed and entries whose metadata cannot be
// fetched are skipped; only an error from callback ends the walk early.
// Overlapping roots are walked independently.
func (w *Walker) Walk(roots []string, callback FileFunc) error {
	pending := make([]string, 0, len(roots))
	pending = append(pending, roots...)

	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := w.fs.ReadDir(dir)
		if err != nil {
			w.stats.DirsAbandoned++
			w.skip(models.SkipListFailed, dir, err)
			continue
		}
		w.stats.DirsListed++

		for _, entry := range entries {
			if entry == nil || entry.Name() == "" {
				w.stats.BadEntries++
				w.skip(models.SkipBadEntry, dir, nil)
				continue
			}

			name := entry.Name()
			if name == "." || name == ".." {
				continue
			}

			path := w.fs.Join(dir, name)
			info, err := w.fs.Lstat(path)
			if err != nil {
				w.stats.StatFailures++
				w.skip(models.SkipStatFailed, path, err)
				continue
			}

			if info.IsDir() {
				pending = append(pending, path)
				continue
			}

			w.stats.Files++
			if err := callback(path, info); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Walker) skip(reason models.SkipReason, path string, err error) {
	w.logger.Debug("Skipping path", zap.String("reason", string(reason)), zap.String("path", path), zap.Error(err))
	if w.onSkip != nil {
		w.onSkip(reason, path)
	}
}

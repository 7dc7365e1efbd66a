package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
)

const readDirBatch = 256

// NativeFS is the operating system filesystem, unrooted: paths are used as
// given. Lstat and Join come from go-billy's ChrootOS.
type NativeFS struct {
	osfs.ChrootOS
}

// NewNativeFS creates a filesystem backed by the operating system
func NewNativeFS() *NativeFS {
	return &NativeFS{}
}

// ReadDir lists the children of dir. The returned FileInfos carry only the
// name and file type from the directory entry; callers fetch full metadata
// with Lstat. Entries that cannot be read are left out instead of failing
// the whole listing, unless nothing could be read at all.
func (n *NativeFS) ReadDir(dir string) ([]os.FileInfo, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var infos []os.FileInfo
	for {
		entries, err := f.ReadDir(readDirBatch)
		for _, e := range entries {
			if e == nil || e.Name() == "" {
				continue
			}
			infos = append(infos, entryInfo{entry: e})
		}
		if errors.Is(err, io.EOF) {
			return infos, nil
		}
		if err != nil {
			if len(infos) == 0 {
				return nil, err
			}
			return infos, nil
		}
		if len(entries) == 0 {
			return infos, nil
		}
	}
}

// entryInfo exposes a directory entry as a FileInfo without an extra stat
type entryInfo struct {
	entry fs.DirEntry
}

func (e entryInfo) Name() string       { return e.entry.Name() }
func (e entryInfo) Size() int64        { return 0 }
func (e entryInfo) Mode() fs.FileMode  { return e.entry.Type() }
func (e entryInfo) ModTime() time.Time { return time.Time{} }
func (e entryInfo) IsDir() bool        { return e.entry.IsDir() }
func (e entryInfo) Sys() any           { return nil }

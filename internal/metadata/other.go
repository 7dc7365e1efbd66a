//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || windows)

package metadata

import (
	"fmt"
	"os"
)

type unsupportedSource struct{}

// NewSource returns a source that rejects every entry; this platform exposes
// neither POSIX stat data nor Win32 attributes.
func NewSource() Source {
	return unsupportedSource{}
}

func (unsupportedSource) Extract(info os.FileInfo) (Stat, error) {
	return Stat{}, fmt.Errorf("%s: %w", info.Name(), ErrNoPlatformStat)
}

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris

package metadata

import (
	"fmt"
	"os"
	"syscall"
)

// PosixSource reads timestamps, mode and ownership from syscall.Stat_t
type PosixSource struct{}

// NewSource returns the metadata source for this platform
func NewSource() Source {
	return PosixSource{}
}

// Extract implements Source
func (PosixSource) Extract(info os.FileInfo) (Stat, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return Stat{}, fmt.Errorf("%s: %w", info.Name(), ErrNoPlatformStat)
	}

	atime, mtime, ctime := statTimes(st)

	return Stat{
		Atime:    TimespecSeconds(atime.Unix()),
		Mtime:    TimespecSeconds(mtime.Unix()),
		Ctime:    TimespecSeconds(ctime.Unix()),
		Size:     uint64(info.Size()),
		Perms:    uint32(st.Mode),
		UID:      st.Uid,
		GID:      st.Gid,
		HasOwner: true,
	}, nil
}

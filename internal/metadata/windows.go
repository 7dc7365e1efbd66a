//go:build windows

package metadata

import (
	"fmt"
	"os"
	"syscall"
)

// WindowsSource reads FILETIME values from Win32 file attribute data. There
// is no owner concept and no mode bits; perms are always 0644.
type WindowsSource struct{}

// NewSource returns the metadata source for this platform
func NewSource() Source {
	return WindowsSource{}
}

// Extract implements Source
func (WindowsSource) Extract(info os.FileInfo) (Stat, error) {
	attr, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || attr == nil {
		return Stat{}, fmt.Errorf("%s: %w", info.Name(), ErrNoPlatformStat)
	}

	return statFromFiletimes(info.Size(), filetimes{
		creation:   filetimeTicks(attr.CreationTime.HighDateTime, attr.CreationTime.LowDateTime),
		lastAccess: filetimeTicks(attr.LastAccessTime.HighDateTime, attr.LastAccessTime.LowDateTime),
		lastWrite:  filetimeTicks(attr.LastWriteTime.HighDateTime, attr.LastWriteTime.LowDateTime),
	}), nil
}

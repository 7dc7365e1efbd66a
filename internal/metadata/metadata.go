// Package metadata turns native filesystem metadata into platform-independent
// file records.
package metadata

import (
	"errors"
	"os"

	"github.com/IvanShishkin/unixfiles/pkg/models"
)

// ErrNoPlatformStat is returned when a FileInfo carries no native stat data
// for the running platform (for example entries of an in-memory filesystem).
var ErrNoPlatformStat = errors.New("no platform stat data")

// Stat is the platform-independent snapshot of one entry's metadata
type Stat struct {
	Atime models.Seconds
	Mtime models.Seconds
	Ctime models.Seconds
	Size  uint64
	Perms uint32

	// Numeric owner ids, meaningful only when HasOwner is set
	UID      uint32
	GID      uint32
	HasOwner bool
}

// Source extracts a Stat from a FileInfo obtained without following links.
// Exactly one implementation is compiled for each platform.
type Source interface {
	Extract(info os.FileInfo) (Stat, error)
}

const (
	filetimeTicksPerSecond = 10_000_000
	// Seconds between 1601-01-01 and 1970-01-01
	filetimeEpochOffset = 11_644_473_600

	// Conventional permission bits reported where the platform has none
	defaultPerms uint32 = 0o644
)

// FiletimeSeconds converts a count of 100ns ticks since 1601-01-01 to Unix
// seconds. Zero ticks means the filesystem does not record the value and maps
// to 0.0 rather than a date in 1601.
func FiletimeSeconds(ticks uint64) models.Seconds {
	if ticks == 0 {
		return 0
	}
	return models.Seconds(float64(ticks)/filetimeTicksPerSecond - filetimeEpochOffset)
}

// TimespecSeconds combines a seconds/nanoseconds pair into Unix seconds
func TimespecSeconds(sec, nsec int64) models.Seconds {
	return models.Seconds(float64(sec) + float64(nsec)/1e9)
}

// filetimes holds the three FILETIME values of a Windows file as raw ticks
type filetimes struct {
	creation   uint64
	lastAccess uint64
	lastWrite  uint64
}

func filetimeTicks(high, low uint32) uint64 {
	return uint64(high)<<32 | uint64(low)
}

// statFromFiletimes builds the Stat of a platform without POSIX ownership.
// Creation time stands in for ctime.
func statFromFiletimes(size int64, ft filetimes) Stat {
	return Stat{
		Atime: FiletimeSeconds(ft.lastAccess),
		Mtime: FiletimeSeconds(ft.lastWrite),
		Ctime: FiletimeSeconds(ft.creation),
		Size:  uint64(size),
		Perms: defaultPerms,
	}
}

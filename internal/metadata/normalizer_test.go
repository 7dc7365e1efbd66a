package metadata

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/IvanShishkin/unixfiles/pkg/models"
	"go.uber.org/zap"
)

type fakeInfo struct {
	name string
	size int64
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

type fakeSource struct {
	stat Stat
	err  error
}

func (s fakeSource) Extract(os.FileInfo) (Stat, error) {
	return s.stat, s.err
}

type fakeResolver struct {
	users  map[uint32]string
	groups map[uint32]string
}

func (r fakeResolver) UserName(uid uint32) (string, bool) {
	name, ok := r.users[uid]
	return name, ok
}

func (r fakeResolver) GroupName(gid uint32) (string, bool) {
	name, ok := r.groups[gid]
	return name, ok
}

var testResolver = fakeResolver{
	users:  map[uint32]string{1000: "alice"},
	groups: map[uint32]string{100: "staff"},
}

func posixStat(uid, gid uint32) Stat {
	return Stat{
		Atime:    1.5,
		Mtime:    100,
		Ctime:    0,
		Size:     10,
		Perms:    0o100644,
		UID:      uid,
		GID:      gid,
		HasOwner: true,
	}
}

func TestNormalize_PosixRecord(t *testing.T) {
	n := NewNormalizer("host1", "2024-01-01T00:00:00Z", fakeSource{stat: posixStat(1000, 100)}, testResolver, zap.NewNop())

	rec, err := n.Normalize("/data/a.txt", fakeInfo{name: "a.txt", size: 10})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec == nil {
		t.Fatal("Normalize() returned nil record")
	}

	want := models.FileRecord{
		Atime:   1.5,
		Ctime:   0,
		Fetched: "2024-01-01T00:00:00Z",
		File:    "/data/a.txt",
		Group:   "staff",
		Host:    "host1",
		Mtime:   100,
		Perms:   0o100644,
		Size:    10,
		User:    "alice",
	}
	if *rec != want {
		t.Errorf("Normalize() = %+v, want %+v", *rec, want)
	}
}

func TestNormalize_UnresolvedIdentitySkips(t *testing.T) {
	tests := []struct {
		name   string
		uid    uint32
		gid    uint32
		reason models.SkipReason
	}{
		{"Unknown user", 4242, 100, models.SkipUnknownUser},
		{"Unknown group", 1000, 4242, models.SkipUnknownGroup},
		{"Both unknown", 4242, 4242, models.SkipUnknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer("h", "f", fakeSource{stat: posixStat(tt.uid, tt.gid)}, testResolver, zap.NewNop())
			var reasons []models.SkipReason
			n.SetSkipCallback(func(reason models.SkipReason, path string) {
				reasons = append(reasons, reason)
			})

			rec, err := n.Normalize("/data/a.txt", fakeInfo{name: "a.txt"})
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if rec != nil {
				t.Errorf("Normalize() = %+v, want nil", rec)
			}
			if len(reasons) != 1 || reasons[0] != tt.reason {
				t.Errorf("skip reasons = %v, want [%s]", reasons, tt.reason)
			}
		})
	}
}

func TestNormalize_NoOwnerPlatform(t *testing.T) {
	st := statFromFiletimes(20, filetimes{lastWrite: 116444737000000000})
	// A resolver that knows nobody must not matter without ownership
	n := NewNormalizer("h", "f", fakeSource{stat: st}, fakeResolver{}, zap.NewNop())

	rec, err := n.Normalize(`C:\data\b.txt`, fakeInfo{name: "b.txt", size: 20})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec == nil {
		t.Fatal("Normalize() returned nil record")
	}
	if rec.User != "" || rec.Group != "" {
		t.Errorf("user/group = %q/%q, want empty", rec.User, rec.Group)
	}
	if rec.Perms != 0o644 {
		t.Errorf("Perms = %o, want 644", rec.Perms)
	}
	if rec.Mtime != 100 || rec.Atime != 0 || rec.Ctime != 0 {
		t.Errorf("times = %v/%v/%v, want 0/0/100 (atime/ctime/mtime)", rec.Atime, rec.Ctime, rec.Mtime)
	}
}

func TestNormalize_ExtractFailureSkips(t *testing.T) {
	n := NewNormalizer("h", "f", fakeSource{err: ErrNoPlatformStat}, testResolver, zap.NewNop())
	skipped := 0
	n.SetSkipCallback(func(models.SkipReason, string) { skipped++ })

	rec, err := n.Normalize("/data/a.txt", fakeInfo{name: "a.txt"})
	if err != nil || rec != nil {
		t.Errorf("Normalize() = (%v, %v), want (nil, nil)", rec, err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}

func TestNormalize_InvalidPath(t *testing.T) {
	invalid := "/data/\xff\xfe.txt"

	t.Run("Strict", func(t *testing.T) {
		n := NewNormalizer("h", "f", fakeSource{stat: posixStat(1000, 100)}, testResolver, zap.NewNop())
		rec, err := n.Normalize(invalid, fakeInfo{name: "x"})
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Normalize() error = %v, want ErrInvalidPath", err)
		}
		if rec != nil {
			t.Errorf("Normalize() = %+v, want nil", rec)
		}
	})

	t.Run("Lenient", func(t *testing.T) {
		n := NewNormalizer("h", "f", fakeSource{stat: posixStat(1000, 100)}, testResolver, zap.NewNop())
		n.SetStrictPaths(false)
		var reason models.SkipReason
		n.SetSkipCallback(func(r models.SkipReason, _ string) { reason = r })

		rec, err := n.Normalize(invalid, fakeInfo{name: "x"})
		if err != nil || rec != nil {
			t.Errorf("Normalize() = (%v, %v), want (nil, nil)", rec, err)
		}
		if reason != models.SkipInvalidPath {
			t.Errorf("skip reason = %q, want %q", reason, models.SkipInvalidPath)
		}
	})
}

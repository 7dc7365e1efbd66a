package metadata

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/IvanShishkin/unixfiles/pkg/models"
	"go.uber.org/zap"
)

// ErrInvalidPath is returned for a path that is not valid UTF-8 text
var ErrInvalidPath = errors.New("path is not valid UTF-8")

// SkipFunc is called once for every entry the normalizer drops
type SkipFunc func(reason models.SkipReason, path string)

// Normalizer builds FileRecords for one run. Host and fetched are stamped on
// every record unchanged.
type Normalizer struct {
	host     string
	fetched  string
	source   Source
	resolver IdentityResolver
	logger   *zap.Logger

	strictPaths bool
	onSkip      SkipFunc
}

// NewNormalizer creates a normalizer. Invalid paths are fatal until
// SetStrictPaths(false) is called.
func NewNormalizer(host, fetched string, source Source, resolver IdentityResolver, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		host:        host,
		fetched:     fetched,
		source:      source,
		resolver:    resolver,
		logger:      logger,
		strictPaths: true,
	}
}

// SetStrictPaths selects whether a non-UTF-8 path aborts the run (true) or
// only skips the entry (false)
func (n *Normalizer) SetStrictPaths(strict bool) {
	n.strictPaths = strict
}

// SetSkipCallback sets the hook called for every skipped entry
func (n *Normalizer) SetSkipCallback(fn SkipFunc) {
	n.onSkip = fn
}

// Normalize converts the metadata of one non-directory entry into a record.
// A nil record with a nil error means the entry is skipped. The only error is
// ErrInvalidPath in strict mode.
func (n *Normalizer) Normalize(path string, info os.FileInfo) (*models.FileRecord, error) {
	if !utf8.ValidString(path) {
		if n.strictPaths {
			return nil, fmt.Errorf("%q: %w", path, ErrInvalidPath)
		}
		n.skip(models.SkipInvalidPath, path, zap.Error(ErrInvalidPath))
		return nil, nil
	}

	st, err := n.source.Extract(info)
	if err != nil {
		n.skip(models.SkipNoPlatformStat, path, zap.Error(err))
		return nil, nil
	}

	record := &models.FileRecord{
		Atime:   st.Atime,
		Ctime:   st.Ctime,
		Fetched: n.fetched,
		File:    path,
		Host:    n.host,
		Mtime:   st.Mtime,
		Perms:   st.Perms,
		Size:    st.Size,
	}

	if st.HasOwner {
		userName, ok := n.resolver.UserName(st.UID)
		if !ok {
			n.skip(models.SkipUnknownUser, path, zap.Uint32("uid", st.UID))
			return nil, nil
		}
		groupName, ok := n.resolver.GroupName(st.GID)
		if !ok {
			n.skip(models.SkipUnknownGroup, path, zap.Uint32("gid", st.GID))
			return nil, nil
		}
		record.User = userName
		record.Group = groupName
	}

	return record, nil
}

func (n *Normalizer) skip(reason models.SkipReason, path string, fields ...zap.Field) {
	n.logger.Debug("Skipping entry",
		append([]zap.Field{zap.String("reason", string(reason)), zap.String("path", path)}, fields...)...)
	if n.onSkip != nil {
		n.onSkip(reason, path)
	}
}

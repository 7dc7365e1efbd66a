package metadata

import (
	"os/user"
	"strconv"
)

// IdentityResolver maps numeric owner ids to names. The boolean result is
// false when the id has no name on this system.
type IdentityResolver interface {
	UserName(uid uint32) (string, bool)
	GroupName(gid uint32) (string, bool)
}

type lookupResult struct {
	name string
	ok   bool
}

// SystemResolver resolves ids through the platform user database and
// remembers every answer, found or not, for the rest of the run. It is not
// safe for concurrent use.
type SystemResolver struct {
	users  map[uint32]lookupResult
	groups map[uint32]lookupResult

	lookupUser  func(uid string) (string, error)
	lookupGroup func(gid string) (string, error)
}

// NewSystemResolver creates a resolver backed by os/user
func NewSystemResolver() *SystemResolver {
	return &SystemResolver{
		users:  make(map[uint32]lookupResult),
		groups: make(map[uint32]lookupResult),
		lookupUser: func(uid string) (string, error) {
			u, err := user.LookupId(uid)
			if err != nil {
				return "", err
			}
			return u.Username, nil
		},
		lookupGroup: func(gid string) (string, error) {
			g, err := user.LookupGroupId(gid)
			if err != nil {
				return "", err
			}
			return g.Name, nil
		},
	}
}

// UserName implements IdentityResolver
func (r *SystemResolver) UserName(uid uint32) (string, bool) {
	return resolve(r.users, uid, r.lookupUser)
}

// GroupName implements IdentityResolver
func (r *SystemResolver) GroupName(gid uint32) (string, bool) {
	return resolve(r.groups, gid, r.lookupGroup)
}

func resolve(cache map[uint32]lookupResult, id uint32, lookup func(string) (string, error)) (string, bool) {
	if res, ok := cache[id]; ok {
		return res.name, res.ok
	}

	name, err := lookup(strconv.FormatUint(uint64(id), 10))
	res := lookupResult{name: name, ok: err == nil && name != ""}
	if !res.ok {
		res.name = ""
	}
	cache[id] = res
	return res.name, res.ok
}

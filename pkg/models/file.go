package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Seconds is a point in time expressed as floating-point seconds since the
// Unix epoch. Zero means the filesystem did not record the value.
type Seconds float64

// MarshalJSON always writes a decimal point, so the unknown sentinel is 0.0
func (s Seconds) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported timestamp value: %v", f)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return []byte(out), nil
}

// FileRecord is the normalized metadata of one file, one JSON array element
// of the output. Fields are declared in key order so the encoded object is
// stable across runs.
type FileRecord struct {
	Atime   Seconds `json:"atime"`
	Ctime   Seconds `json:"ctime"`
	Fetched string  `json:"fetched"`
	File    string  `json:"file"`
	Group   string  `json:"group"`
	Host    string  `json:"host"`
	Mtime   Seconds `json:"mtime"`
	Perms   uint32  `json:"perms"`
	Size    uint64  `json:"size"`
	User    string  `json:"user"`
}

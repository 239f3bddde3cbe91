package domain

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

const (
	SnapshotPrefix = "backup_"
	SnapshotSuffix = ".db"

	// Filesystem-safe timestamp: ISO-8601 with colons replaced by dashes,
	// truncated to second granularity.
	snapshotTimeLayout = "2006-01-02T15-04-05"
)

// snapshotNamePattern matches exactly the names this service produces. The
// optional numeric suffix disambiguates snapshots created within the same
// second. Anything else (path separators, traversal sequences, foreign
// extensions) is rejected before any filesystem access happens.
var snapshotNamePattern = regexp.MustCompile(`^backup_\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}(-\d+)?\.db$`)

// Snapshot is a point-in-time copy of the primary data file.
type Snapshot struct {
	Name      string
	SizeBytes int64
	CreatedAt time.Time
}

// SnapshotName builds the canonical file name for a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return SnapshotPrefix + t.Format(snapshotTimeLayout) + SnapshotSuffix
}

// SnapshotNameSeq builds a name for the seq-th snapshot taken within the
// same second, counting from 1.
func SnapshotNameSeq(t time.Time, seq int) string {
	return SnapshotPrefix + t.Format(snapshotTimeLayout) + "-" + strconv.Itoa(seq) + SnapshotSuffix
}

// ValidSnapshotName reports whether name is a well-formed snapshot file name.
func ValidSnapshotName(name string) bool {
	return snapshotNamePattern.MatchString(name)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count as a human-readable string, scaled to the
// largest unit keeping the value below 1024 and rounded to two decimals,
// e.g. 1536 -> "1.5 KB". Zero is rendered as "0 Bytes".
func FormatSize(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[unit]
}

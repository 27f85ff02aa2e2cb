package registration

import (
	"fmt"
	"time"
)

const (
	PrefixStudent = "STD"
	PrefixFaculty = "FAC"
)

// NewReceiptID builds "<prefix>-<last six digits of now in Unix milliseconds>".
// Two calls within the same millisecond, or a million milliseconds apart,
// return the same ID.
func NewReceiptID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%06d", prefix, now.UnixMilli()%1_000_000)
}

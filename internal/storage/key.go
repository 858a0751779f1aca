package storage

import (
	"strconv"
	"time"
)

// UploadKey derives the object key for an upload by prefixing fileName with
// the Unix time in milliseconds. Two uploads of the same name within the
// same millisecond produce the same key and the later one overwrites.
func UploadKey(now time.Time, fileName string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + fileName
}

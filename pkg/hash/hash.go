package hash

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

func String(value string) string {
	return strconv.FormatUint(xxh3.HashString(value), 16)
}

func Bytes(content []byte) string {
	return strconv.FormatUint(xxh3.Hash(content), 16)
}

// ETag returns a strong validator for the given content
func ETag(content []byte) string {
	return `"` + Bytes(content) + `"`
}

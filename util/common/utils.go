package common

import (
	"github.com/inhies/go-bytesize"
)

// GetSize renders a byte count in human-readable form.
func GetSize(sizeVal int64) string {
	size := bytesize.New(float64(sizeVal))
	return size.String()
}

// Package util is a set of utility variables or methods
package util

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".JPEG", ".JPG",
	".png", ".PNG",
	".gif", ".GIF",
	".webp", ".WEBP",
)

// IsImageFile reports whether name carries an accepted image extension.
func IsImageFile(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return SupportedExt.Contains(name[i:])
}

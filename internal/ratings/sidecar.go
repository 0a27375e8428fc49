package ratings

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const sidecarSuffix = ".xmp"

// ParseRating validates a whitespace-stripped exiftool output as a star
// rating. Valid ratings are a single ASCII digit in 1-5; everything else
// (empty, zero, multi-digit, non-numeric) is rejected.
func ParseRating(value string) (int, bool) {
	if len(value) != 1 {
		return 0, false
	}
	if value[0] < '1' || value[0] > '5' {
		return 0, false
	}
	return int(value[0] - '0'), true
}

// Percent maps a 1-5 star rating onto the 0-100 percent scale in steps of
// twenty.
func Percent(rating int) int {
	return rating * 20
}

// IsSidecar reports whether name looks like an XMP sidecar file.
func IsSidecar(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), sidecarSuffix)
}

// TargetName derives the expected image name for a sidecar: the compound
// suffix is stripped (DSCF0001.RAF.xmp -> DSCF0001) and the target extension
// appended. Only the configured raw extension is stripped, so dots inside
// the base name survive.
func TargetName(sidecarName, rawExt, targetExt string) string {
	base := trimSuffixFold(sidecarName, sidecarSuffix)
	if rawExt != "" {
		base = trimSuffixFold(base, "."+rawExt)
	}
	return base + "." + targetExt
}

// NormalizeName canonicalizes a filename for cross-platform comparison.
// macOS stores decomposed Unicode; NFC folding makes both spellings match.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

func trimSuffixFold(s, suffix string) string {
	if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}

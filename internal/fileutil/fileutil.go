// Package fileutil classifies filenames for transfer-mode selection and
// converts the file metadata found in directory listings into friendlier
// forms. It is pure computation, safe for concurrent use.
package fileutil

import (
	"fmt"
	"path"
	"strings"
)

// textExtensions lists file extensions transferred in ASCII mode.
// Everything else is treated as binary.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".css":  true,
	".js":   true,
	".json": true,
	".xml":  true,
	".csv":  true,
	".log":  true,
	".ini":  true,
	".conf": true,
	".cfg":  true,
	".py":   true,
	".java": true,
	".c":    true,
	".cpp":  true,
	".h":    true,
	".go":   true,
	".sh":   true,
	".bat":  true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// IsBinary reports whether a file should be transferred in binary mode,
// judged by its extension. Unknown extensions (and files without one)
// are binary: sending bytes verbatim is always safe, while ASCII
// translation corrupts anything that is not text.
func IsBinary(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	return !textExtensions[ext]
}

// ParsePermissions converts a 9-character Unix permission string such as
// "rwxr-xr--" into its octal value (0754). It returns -1 for input that
// is not a 9-character permission string.
func ParsePermissions(perms string) int {
	if len(perms) != 9 {
		return -1
	}

	mode := 0
	for i := 0; i < 9; i += 3 {
		group := 0
		if perms[i] == 'r' {
			group += 4
		}
		if perms[i+1] == 'w' {
			group += 2
		}
		if perms[i+2] == 'x' {
			group++
		}
		mode = mode<<3 | group
	}
	return mode
}

// FormatPermissions renders an octal permission value (e.g. 0754) as the
// 9-character string form ("rwxr-xr--").
func FormatPermissions(mode int) string {
	var b strings.Builder
	for shift := 6; shift >= 0; shift -= 3 {
		group := (mode >> shift) & 7
		if group&4 != 0 {
			b.WriteByte('r')
		} else {
			b.WriteByte('-')
		}
		if group&2 != 0 {
			b.WriteByte('w')
		} else {
			b.WriteByte('-')
		}
		if group&1 != 0 {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// FormatSize renders a byte count in human-readable form, e.g. "1.50 MB".
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", value)
}

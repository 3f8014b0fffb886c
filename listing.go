package ftpc

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// EntryType classifies a directory listing entry.
type EntryType string

const (
	EntryFile    EntryType = "file"
	EntryDir     EntryType = "dir"
	EntryUnknown EntryType = "unknown"
)

// Entry represents one file or directory from a LIST or MLSD response.
// Fields that a given listing format does not carry are left zero.
type Entry struct {
	// Name is the file or directory name. Names containing spaces are
	// preserved intact.
	Name string

	// Type is the entry classification.
	Type EntryType

	// Size is the entry size in bytes, when the listing carries one.
	Size int64

	// Permissions is the 9-character Unix permission string, e.g. "rwxr-xr-x".
	Permissions string

	// Links is the hard link count from a Unix-style listing.
	Links int

	// Owner and Group are captured verbatim from a Unix-style listing.
	Owner string
	Group string

	// Modified is the modification date text, verbatim (e.g. "Jan 1 12:00"
	// for LIST, the raw modify fact for MLSD).
	Modified string

	// Facts holds all key/value pairs from a machine-readable listing,
	// keys lower-cased. Nil for LIST entries.
	Facts map[string]string

	// Raw is the original listing line.
	Raw string
}

// unixListRegex matches the positional grammar of a Unix-style LIST line:
// type char, 9 permission chars, link count, owner, group, size, a
// "month day time-or-year" date, and the name as everything remaining.
var unixListRegex = regexp.MustCompile(
	`^([a-zA-Z-])([rwxstST-]{9})\s+(\d+)\s+(\S+)\s+(\S+)\s+(\d+)\s+(\w+\s+\d+\s+[\w:]+)\s+(.+)$`,
)

// ParseList parses the lines of a LIST response in the traditional
// Unix style. Blank lines are skipped. Lines that do not match the
// Unix grammar are not dropped: they degrade to an entry with the
// trimmed raw line as the name and type EntryUnknown, so the caller
// still sees something for every line. LIST output is server-formatted
// and not contractually guaranteed, which makes partial information
// better than silent loss.
func ParseList(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		m := unixListRegex.FindStringSubmatch(line)
		if m == nil {
			slog.Debug("list line does not match unix format", "raw", line)
			entries = append(entries, Entry{
				Name: trimmed,
				Type: EntryUnknown,
				Raw:  line,
			})
			continue
		}

		typ := EntryFile
		if m[1] == "d" {
			typ = EntryDir
		}

		// Both are all-digit by construction of the pattern.
		links, _ := strconv.Atoi(m[3])
		size, _ := strconv.ParseInt(m[6], 10, 64)

		entries = append(entries, Entry{
			Name:        m[8],
			Type:        typ,
			Size:        size,
			Permissions: m[2],
			Links:       links,
			Owner:       m[4],
			Group:       m[5],
			Modified:    m[7],
			Raw:         line,
		})
	}
	return entries
}

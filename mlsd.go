package ftpc

import (
	"log/slog"
	"strconv"
	"strings"
)

// ParseMLSD parses the lines of an MLSD (machine-readable listing)
// response. Each line carries a "key=value;key=value;...;" facts block,
// one space, then the entry name. Only the first space separates facts
// from name, so names containing spaces survive intact.
//
// Fact keys are lower-cased before storage. Blank lines are skipped.
// A line that cannot be split into facts and a name, or whose facts
// block contains a pair with no "=", is skipped with a warning; one bad
// line never aborts the whole listing.
func ParseMLSD(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		entry, ok := parseMLSDLine(trimmed)
		if !ok {
			slog.Warn("skipping malformed mlsd line", "raw", line)
			continue
		}
		entry.Raw = line
		entries = append(entries, entry)
	}
	return entries
}

func parseMLSDLine(line string) (Entry, bool) {
	factsPart, name, found := strings.Cut(line, " ")
	if !found || name == "" {
		return Entry{}, false
	}

	facts := make(map[string]string)
	for _, fact := range strings.Split(factsPart, ";") {
		if fact == "" {
			continue
		}
		key, value, ok := strings.Cut(fact, "=")
		if !ok {
			return Entry{}, false
		}
		facts[strings.ToLower(key)] = value
	}

	entry := Entry{
		Name:  name,
		Type:  EntryUnknown,
		Facts: facts,
	}

	switch strings.ToLower(facts["type"]) {
	case "file":
		entry.Type = EntryFile
	case "dir", "cdir", "pdir":
		entry.Type = EntryDir
	}

	if v, ok := facts["size"]; ok {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			entry.Size = size
		}
	}
	if v, ok := facts["modify"]; ok {
		entry.Modified = v
	}
	if v, ok := facts["perm"]; ok {
		entry.Permissions = v
	}

	return entry, true
}

package ftpc

import (
	"bufio"
	"log/slog"
	"strconv"
	"strings"
)

// CodeNone is the sentinel code for a reply line whose first three
// characters are not digits.
const CodeNone = -1

// Reply represents a single FTP server response line.
type Reply struct {
	// Code is the three-digit response code (e.g., 220, 550),
	// or CodeNone when the line could not be parsed.
	Code int

	// Message is the human-readable text following the code.
	Message string
}

// ParseReply decodes one response line into a code and message.
//
// The first three characters are parsed as the response code and the
// remainder, trimmed of surrounding whitespace, becomes the message.
// Malformed lines (too short, or a non-numeric prefix) never produce an
// error: the whole raw line is returned verbatim as the message with
// Code set to CodeNone, and a diagnostic is logged. Servers in the wild
// emit enough garbage that a reply parser must not be a crash surface.
func ParseReply(line string) Reply {
	if len(line) < 3 {
		slog.Error("unparsable ftp reply", "raw", line)
		return Reply{Code: CodeNone, Message: line}
	}

	code, err := strconv.Atoi(line[:3])
	if err != nil {
		slog.Error("unparsable ftp reply", "raw", line)
		return Reply{Code: CodeNone, Message: line}
	}

	return Reply{Code: code, Message: strings.TrimSpace(line[3:])}
}

// Is1xx returns true if the reply code is in the 1xx range (positive preliminary).
func (r Reply) Is1xx() bool {
	return r.Code >= 100 && r.Code < 200
}

// Is2xx returns true if the reply code is in the 2xx range (success).
func (r Reply) Is2xx() bool {
	return r.Code >= 200 && r.Code < 300
}

// Is3xx returns true if the reply code is in the 3xx range (intermediate).
func (r Reply) Is3xx() bool {
	return r.Code >= 300 && r.Code < 400
}

// Is4xx returns true if the reply code is in the 4xx range (temporary failure).
func (r Reply) Is4xx() bool {
	return r.Code >= 400 && r.Code < 500
}

// Is5xx returns true if the reply code is in the 5xx range (permanent failure).
func (r Reply) Is5xx() bool {
	return r.Code >= 500 && r.Code < 600
}

// readReply reads the next reply from the control connection.
//
// Multi-line responses (RFC 959 "ddd-" blocks) are consumed so the
// control stream stays in sync, but only the terminating line's code
// and message are reported; intermediate content is not interpreted.
func readReply(r *bufio.Reader) (Reply, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Reply{}, err
	}
	line = strings.TrimRight(line, "\r\n")

	reply := ParseReply(line)

	// Single-line response, or something we could not make sense of.
	if reply.Code == CodeNone || len(line) < 4 || line[3] != '-' {
		return reply, nil
	}

	// Multi-line block: skip until the "ddd " terminator.
	prefix := line[:3] + " "
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return Reply{}, err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, prefix) {
			return ParseReply(line), nil
		}
	}
}

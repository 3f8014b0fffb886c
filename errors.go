package ftpc

import "fmt"

// ProtocolError is returned when the server rejects a command. It keeps
// the full command/reply conversation for debugging and retry decisions.
type ProtocolError struct {
	// Command is the FTP command that was sent (e.g., "STOR file.txt").
	Command string

	// Reply is the server's response.
	Reply Reply
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ftp: %s failed: %s (code %d)", e.Command, e.Reply.Message, e.Reply.Code)
}

// IsTemporary returns true if the failure is transient (4xx) and the
// command may succeed on retry.
func (e *ProtocolError) IsTemporary() bool {
	return e.Reply.Is4xx()
}

// IsPermanent returns true if the failure is permanent (5xx).
func (e *ProtocolError) IsPermanent() bool {
	return e.Reply.Is5xx()
}

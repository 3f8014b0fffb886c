package ftpc

// TransferMode selects how file contents are encoded on the data connection.
type TransferMode int

const (
	// ASCII transfers translate line endings to the local convention (TYPE A).
	ASCII TransferMode = iota

	// Binary transfers copy bytes verbatim (TYPE I).
	Binary
)

// Token returns the argument sent with the TYPE command.
func (m TransferMode) Token() string {
	if m == ASCII {
		return "A"
	}
	return "I"
}

// String returns a human-readable name for the mode.
func (m TransferMode) String() string {
	if m == ASCII {
		return "ASCII"
	}
	return "BINARY"
}

// ConnectionMode selects how data connections are negotiated.
type ConnectionMode int

const (
	// Passive mode asks the server for an address to connect to (PASV).
	// This is the default and works through most NATs and firewalls.
	Passive ConnectionMode = iota

	// Active mode opens a local listener and tells the server to connect
	// to it (PORT).
	Active
)

// Command returns the command family the mode maps to.
func (m ConnectionMode) Command() string {
	if m == Active {
		return "PORT"
	}
	return "PASV"
}

// String returns a human-readable name for the mode.
func (m ConnectionMode) String() string {
	if m == Active {
		return "ACTIVE"
	}
	return "PASSIVE"
}

package ftpc

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// readDataLines drains a data connection into a slice of lines and
// finishes the transfer.
func (c *Client) readDataLines(dataConn net.Conn) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(dataConn)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		// The transfer failed midway; still collect the completion
		// reply so the control channel stays in step for the next
		// command.
		_ = c.finishDataConn(dataConn)
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	if err := c.finishDataConn(dataConn); err != nil {
		return nil, err
	}
	return lines, nil
}

// List returns the entries of a directory using the LIST command and
// the Unix-style listing parser. If path is empty, the current
// directory is listed.
//
// LIST output is server-formatted text. Lines the parser cannot match
// degrade to entries of type EntryUnknown rather than being dropped,
// so callers still see one entry per listing line. For standardized,
// machine-readable listings use MLList instead.
func (c *Client) List(path string) ([]Entry, error) {
	var dataConn net.Conn
	var err error

	if path == "" {
		dataConn, err = c.cmdDataConn("LIST")
	} else {
		dataConn, err = c.cmdDataConn("LIST", path)
	}
	if err != nil {
		return nil, err
	}

	lines, err := c.readDataLines(dataConn)
	if err != nil {
		return nil, err
	}

	return ParseList(lines), nil
}

// MLList returns the entries of a directory using the MLSD command and
// the machine-readable facts parser (RFC 3659). If path is empty, the
// current directory is listed.
//
// Example:
//
//	entries, err := client.MLList("/pub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range entries {
//	    fmt.Printf("%s: %d bytes\n", entry.Name, entry.Size)
//	}
func (c *Client) MLList(path string) ([]Entry, error) {
	var dataConn net.Conn
	var err error

	if path == "" {
		dataConn, err = c.cmdDataConn("MLSD")
	} else {
		dataConn, err = c.cmdDataConn("MLSD", path)
	}
	if err != nil {
		return nil, err
	}

	lines, err := c.readDataLines(dataConn)
	if err != nil {
		return nil, err
	}

	return ParseMLSD(lines), nil
}

// NameList returns a bare list of names using the NLST command.
func (c *Client) NameList(path string) ([]string, error) {
	var dataConn net.Conn
	var err error

	if path == "" {
		dataConn, err = c.cmdDataConn("NLST")
	} else {
		dataConn, err = c.cmdDataConn("NLST", path)
	}
	if err != nil {
		return nil, err
	}

	lines, err := c.readDataLines(dataConn)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// ChangeDir changes the current working directory.
func (c *Client) ChangeDir(path string) error {
	_, err := c.expect2xx("CWD", path)
	return err
}

// CurrentDir returns the current working directory.
func (c *Client) CurrentDir() (string, error) {
	reply, err := c.expect2xx("PWD")
	if err != nil {
		return "", err
	}

	// Example: 257 "/home/user" is the current directory
	msg := reply.Message
	start := strings.Index(msg, `"`)
	if start == -1 {
		return "", fmt.Errorf("invalid PWD reply: %s", msg)
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return "", fmt.Errorf("invalid PWD reply: %s", msg)
	}

	return msg[start+1 : start+1+end], nil
}

// MakeDir creates a new directory.
func (c *Client) MakeDir(path string) error {
	_, err := c.expect2xx("MKD", path)
	return err
}

// RemoveDir removes a directory.
func (c *Client) RemoveDir(path string) error {
	_, err := c.expect2xx("RMD", path)
	return err
}

// Delete deletes a file.
func (c *Client) Delete(path string) error {
	_, err := c.expect2xx("DELE", path)
	return err
}

// Rename renames a file or directory.
func (c *Client) Rename(from, to string) error {
	if _, err := c.expectCode(350, "RNFR", from); err != nil {
		return err
	}
	_, err := c.expect2xx("RNTO", to)
	return err
}

// Size returns the size of a file in bytes using the SIZE command.
func (c *Client) Size(path string) (int64, error) {
	reply, err := c.expect2xx("SIZE", path)
	if err != nil {
		return 0, err
	}

	size, err := strconv.ParseInt(strings.TrimSpace(reply.Message), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SIZE reply: %s", reply.Message)
	}
	return size, nil
}

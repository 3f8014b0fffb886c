package ftpc

import (
	"fmt"
	"io"
	"os"

	"github.com/dconde/ftpc/internal/ratelimit"
)

// Store uploads data from an io.Reader to the remote path.
//
// The transfer mode (TYPE A or TYPE I) is chosen per file by the
// filename heuristic unless a mode was forced with SetTransferMode.
//
// Example:
//
//	file, err := os.Open("local.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	err = client.Store("remote.txt", file)
func (c *Client) Store(remotePath string, r io.Reader) error {
	if err := c.setType(c.transferModeFor(remotePath)); err != nil {
		return err
	}

	dataConn, err := c.cmdDataConn("STOR", remotePath)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(ratelimit.NewWriter(dataConn, c.limiter), r)

	// Always finish the data connection (close and read the reply)
	finishErr := c.finishDataConn(dataConn)

	if copyErr != nil {
		return fmt.Errorf("upload failed: %w", copyErr)
	}
	return finishErr
}

// Retrieve downloads data from the remote path to an io.Writer.
//
// The transfer mode (TYPE A or TYPE I) is chosen per file by the
// filename heuristic unless a mode was forced with SetTransferMode.
func (c *Client) Retrieve(remotePath string, w io.Writer) error {
	if err := c.setType(c.transferModeFor(remotePath)); err != nil {
		return err
	}

	dataConn, err := c.cmdDataConn("RETR", remotePath)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(w, ratelimit.NewReader(dataConn, c.limiter))

	// Always finish the data connection (close and read the reply)
	finishErr := c.finishDataConn(dataConn)

	if copyErr != nil {
		return fmt.Errorf("download failed: %w", copyErr)
	}
	return finishErr
}

// StoreFile uploads a local file to the remote path.
// This is a convenience wrapper around Store.
func (c *Client) StoreFile(localPath, remotePath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	return c.Store(remotePath, file)
}

// RetrieveFile downloads a remote file to a local path.
// This is a convenience wrapper around Retrieve. The partial local file
// is removed when the download fails.
func (c *Client) RetrieveFile(remotePath, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	if err := c.Retrieve(remotePath, file); err != nil {
		file.Close()
		_ = os.Remove(localPath)
		return err
	}

	return file.Close()
}

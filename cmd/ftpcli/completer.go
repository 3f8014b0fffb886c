package main

import (
	"strings"
	"time"

	"github.com/c-bata/go-prompt"

	"github.com/dconde/ftpc"
)

// commandCompleter supplies shell and remote-path suggestions. Remote
// names come from a short-lived cache refreshed from the server's
// listing, so completion never blocks the prompt for long.
type commandCompleter struct {
	session  *session
	commands []prompt.Suggest

	remoteFiles []string
	remoteDirs  []string
	lastUpdate  time.Time
	cacheMaxAge time.Duration
}

func newCommandCompleter(s *session) *commandCompleter {
	return &commandCompleter{
		session:     s,
		cacheMaxAge: 15 * time.Second,
		commands: []prompt.Suggest{
			{Text: "open", Description: "Connect to a server"},
			{Text: "login", Description: "Authenticate"},
			{Text: "close", Description: "Disconnect"},
			{Text: "ls", Description: "Unix-style directory listing"},
			{Text: "mlsd", Description: "Machine-readable listing"},
			{Text: "nlst", Description: "Bare name listing"},
			{Text: "cd", Description: "Change remote directory"},
			{Text: "pwd", Description: "Show remote directory"},
			{Text: "get", Description: "Download a file"},
			{Text: "put", Description: "Upload a file"},
			{Text: "mkdir", Description: "Create a directory"},
			{Text: "rmdir", Description: "Remove a directory"},
			{Text: "rm", Description: "Delete a file"},
			{Text: "rename", Description: "Rename a file or directory"},
			{Text: "chmod", Description: "Change remote file permissions"},
			{Text: "size", Description: "Show file size"},
			{Text: "mode", Description: "Data connection mode"},
			{Text: "type", Description: "Transfer type policy"},
			{Text: "quote", Description: "Send a raw FTP command"},
			{Text: "noop", Description: "Keep the connection alive"},
			{Text: "help", Description: "Show help"},
			{Text: "exit", Description: "Quit"},
		},
	}
}

func (c *commandCompleter) complete(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	words := strings.Fields(text)

	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(text, " ")) {
		return c.suggestCommands(words)
	}
	return c.suggestArguments(words, strings.HasSuffix(text, " "))
}

func (c *commandCompleter) suggestCommands(words []string) []prompt.Suggest {
	if len(words) == 0 {
		return c.commands
	}
	return prompt.FilterHasPrefix(c.commands, words[0], true)
}

func (c *commandCompleter) suggestArguments(words []string, newWord bool) []prompt.Suggest {
	prefix := ""
	if !newWord {
		prefix = words[len(words)-1]
	}

	switch strings.ToLower(words[0]) {
	case "cd", "rmdir":
		return c.suggestRemote(prefix, true)
	case "get", "rm", "size", "rename":
		return c.suggestRemote(prefix, false)
	case "ls", "mlsd", "nlst":
		suggestions := c.suggestRemote(prefix, true)
		return append(suggestions, c.suggestRemote(prefix, false)...)
	case "mode":
		return prompt.FilterHasPrefix([]prompt.Suggest{
			{Text: "passive", Description: "PASV data connections"},
			{Text: "active", Description: "PORT data connections"},
		}, prefix, true)
	case "type":
		return prompt.FilterHasPrefix([]prompt.Suggest{
			{Text: "auto", Description: "Pick per file by extension"},
			{Text: "ascii", Description: "Force TYPE A"},
			{Text: "binary", Description: "Force TYPE I"},
		}, prefix, true)
	default:
		return nil
	}
}

func (c *commandCompleter) suggestRemote(prefix string, dirs bool) []prompt.Suggest {
	if time.Since(c.lastUpdate) > c.cacheMaxAge {
		c.refresh()
	}

	names := c.remoteFiles
	description := "Remote file"
	if dirs {
		names = c.remoteDirs
		description = "Remote directory"
	}

	var suggestions []prompt.Suggest
	for _, name := range names {
		// Hidden entries only when asked for explicitly
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			suggestions = append(suggestions, prompt.Suggest{Text: name, Description: description})
		}
	}
	return suggestions
}

// updateEntries feeds a fresh listing into the cache, so an explicit
// "ls" keeps the completions current without another round trip.
func (c *commandCompleter) updateEntries(entries []ftpc.Entry) {
	var files, dirs []string
	for _, entry := range entries {
		switch entry.Type {
		case ftpc.EntryDir:
			dirs = append(dirs, entry.Name)
		case ftpc.EntryFile:
			files = append(files, entry.Name)
		}
	}
	c.remoteFiles = files
	c.remoteDirs = dirs
	c.lastUpdate = time.Now()
}

func (c *commandCompleter) clearCache() {
	c.remoteFiles = nil
	c.remoteDirs = nil
	c.lastUpdate = time.Time{}
}

func (c *commandCompleter) refresh() {
	s := c.session
	if s == nil || !s.connected() {
		return
	}

	entries, err := s.client.List("")
	if err != nil {
		// Keep whatever cache we had; completion is best effort.
		return
	}
	c.updateEntries(entries)
}

// Package ftpc implements an FTP client built around an explicit
// protocol-interpretation layer.
//
// # Overview
//
// The package has two faces. The parsing layer turns raw server text
// into structured values and is usable on its own:
//
//   - ParseReply decodes a status code and message from a reply line
//   - ParsePassiveAddress and BuildPortArgument codec the six-number
//     PASV/PORT address representation
//   - ParseMLSD and ParseList decode machine-readable and Unix-style
//     directory listings into a uniform Entry shape
//
// All parsing is pure computation over strings: no I/O, no shared
// mutable state, safe for concurrent use.
//
// On top of that, Client provides the usual client plumbing: control
// connection, login, directory operations, and transfers in both
// passive (PASV) and active (PORT) modes, with automatic per-file
// ASCII/binary mode selection, optional bandwidth limiting, and
// progress callbacks.
//
// For batch work, Pool maintains a bounded set of authenticated
// connections and Queue schedules prioritized, automatically retried
// tasks across them.
//
// # Basic Usage
//
//	client, err := ftpc.Dial("ftp.example.com:21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
//
//	if err := client.Login("username", "password"); err != nil {
//	    log.Fatal(err)
//	}
//
//	entries, err := client.List("/pub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range entries {
//	    fmt.Printf("%s: %d bytes (%s)\n", entry.Name, entry.Size, entry.Type)
//	}
//
// # Error Handling
//
// Malformed server text never panics and never crashes a listing:
// unparsable reply lines carry the CodeNone sentinel, unmatched LIST
// lines degrade to EntryUnknown entries, and bad MLSD lines are skipped
// with a warning. The one hard failure is a malformed PASV address
// (ErrMalformedAddress), since a data connection cannot be opened
// without it. Commands the server rejects return *ProtocolError with
// the full command/reply context.
//
// # Logging
//
// Pass a *slog.Logger with WithLogger to see every command and reply at
// debug level. Parser diagnostics go to the default slog logger.
package ftpc

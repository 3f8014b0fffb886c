package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dconde/ftpc"
	"github.com/dconde/ftpc/internal/config"
	"github.com/dconde/ftpc/internal/fileutil"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

// session holds the interactive shell state: one client connection at
// a time, plus the configuration it was opened with.
type session struct {
	cfg    *config.Config
	logger *slog.Logger

	client    *ftpc.Client
	host      string
	remoteDir string

	completer *commandCompleter
	table     *tableFormatter
}

func newSession(cfg *config.Config, logger *slog.Logger) *session {
	s := &session{
		cfg:    cfg,
		logger: logger,
		table:  newTableFormatter(),
	}
	s.completer = newCommandCompleter(s)
	return s
}

func (s *session) connected() bool {
	return s.client != nil
}

// execute dispatches one line of shell input.
func (s *session) execute(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]

	handlers := map[string]func([]string){
		"open":   s.cmdOpen,
		"login":  s.cmdLogin,
		"close":  s.cmdClose,
		"ls":     s.cmdList,
		"mlsd":   s.cmdMLSD,
		"nlst":   s.cmdNameList,
		"cd":     s.cmdChangeDir,
		"pwd":    s.cmdPwd,
		"get":    s.cmdGet,
		"put":    s.cmdPut,
		"mkdir":  s.cmdMkdir,
		"rmdir":  s.cmdRmdir,
		"rm":     s.cmdDelete,
		"rename": s.cmdRename,
		"chmod":  s.cmdChmod,
		"size":   s.cmdSize,
		"mode":   s.cmdMode,
		"type":   s.cmdType,
		"quote":  s.cmdQuote,
		"noop":   s.cmdNoop,
		"help":   s.cmdHelp,
	}

	if name == "exit" || name == "quit" {
		s.close()
		os.Exit(0)
	}

	handler, ok := handlers[name]
	if !ok {
		errorColor.Printf("Unknown command: %s (try 'help')\n", name)
		return
	}
	handler(args)
}

// close quits the current connection, if any. Safe to call twice.
func (s *session) close() {
	if s.client == nil {
		return
	}
	if err := s.client.Quit(); err != nil {
		s.logger.Warn("quit failed", "err", err)
	}
	s.client = nil
	s.host = ""
	s.remoteDir = ""
	s.completer.clearCache()
}

func (s *session) requireConnection() bool {
	if s.connected() {
		return true
	}
	errorColor.Println("Not connected. Use 'open <host>' first.")
	return false
}

func (s *session) cmdOpen(args []string) {
	if s.connected() {
		errorColor.Println("Already connected. Use 'close' first.")
		return
	}

	host := s.cfg.Host
	if len(args) > 0 {
		host = args[0]
	}
	if host == "" {
		errorColor.Println("Usage: open <host[:port]>")
		return
	}
	if !strings.Contains(host, ":") {
		host = fmt.Sprintf("%s:%d", host, s.cfg.Port)
	}

	options := []ftpc.Option{
		ftpc.WithLogger(s.logger),
		ftpc.WithTimeout(time.Duration(s.cfg.TimeoutSeconds) * time.Second),
	}
	if s.cfg.IdleTimeoutSeconds > 0 {
		options = append(options, ftpc.WithIdleTimeout(time.Duration(s.cfg.IdleTimeoutSeconds)*time.Second))
	}
	if s.cfg.ConnectionMode == "active" {
		options = append(options, ftpc.WithConnectionMode(ftpc.Active))
	}
	switch s.cfg.TransferMode {
	case "ascii":
		options = append(options, ftpc.WithTransferMode(ftpc.ASCII))
	case "binary":
		options = append(options, ftpc.WithTransferMode(ftpc.Binary))
	}
	if s.cfg.RateLimit > 0 {
		options = append(options, ftpc.WithRateLimit(s.cfg.RateLimit))
	}

	client, err := ftpc.Dial(host, options...)
	if err != nil {
		errorColor.Printf("Connection failed: %v\n", err)
		return
	}

	s.client = client
	s.host = host
	s.remoteDir = "/"
	successColor.Printf("Connected to %s\n", host)

	if s.cfg.User != "" {
		s.cmdLogin([]string{s.cfg.User})
	}
}

func (s *session) cmdLogin(args []string) {
	if !s.requireConnection() {
		return
	}

	user := s.cfg.User
	if len(args) > 0 {
		user = args[0]
	}
	if user == "" {
		fmt.Print("Username: ")
		if _, err := fmt.Scanln(&user); err != nil {
			errorColor.Printf("Error reading username: %v\n", err)
			return
		}
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		errorColor.Printf("Error reading password: %v\n", err)
		return
	}

	if err := s.client.Login(user, string(password)); err != nil {
		errorColor.Printf("Login failed: %v\n", err)
		return
	}

	successColor.Printf("Logged in as %s\n", user)
	s.refreshDir()
}

func (s *session) cmdClose(args []string) {
	if !s.requireConnection() {
		return
	}
	s.close()
	successColor.Println("Disconnected")
}

func (s *session) cmdList(args []string) {
	if !s.requireConnection() {
		return
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	entries, err := s.client.List(path)
	if err != nil {
		errorColor.Printf("List failed: %v\n", err)
		return
	}
	s.completer.updateEntries(entries)

	if err := s.table.render(entries); err != nil {
		errorColor.Printf("Render failed: %v\n", err)
	}
}

func (s *session) cmdMLSD(args []string) {
	if !s.requireConnection() {
		return
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	entries, err := s.client.MLList(path)
	if err != nil {
		errorColor.Printf("MLSD failed: %v\n", err)
		return
	}
	s.completer.updateEntries(entries)

	if err := s.table.render(entries); err != nil {
		errorColor.Printf("Render failed: %v\n", err)
	}
}

func (s *session) cmdNameList(args []string) {
	if !s.requireConnection() {
		return
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	names, err := s.client.NameList(path)
	if err != nil {
		errorColor.Printf("NLST failed: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func (s *session) cmdChangeDir(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: cd <path>")
		return
	}

	if err := s.client.ChangeDir(args[0]); err != nil {
		errorColor.Printf("cd failed: %v\n", err)
		return
	}
	s.refreshDir()
	s.completer.clearCache()
}

func (s *session) cmdPwd(args []string) {
	if !s.requireConnection() {
		return
	}

	dir, err := s.client.CurrentDir()
	if err != nil {
		errorColor.Printf("pwd failed: %v\n", err)
		return
	}
	fmt.Println(dir)
}

func (s *session) cmdGet(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: get <remote> [local]")
		return
	}

	remote := args[0]
	local := filepath.Base(remote)
	if len(args) > 1 {
		local = args[1]
	}

	file, err := os.Create(local)
	if err != nil {
		errorColor.Printf("Download failed: %v\n", err)
		return
	}

	infoColor.Printf("Downloading %s -> %s\n", remote, local)
	start := time.Now()
	w := &ftpc.ProgressWriter{Writer: file, Callback: printProgress}
	if err := s.client.Retrieve(remote, w); err != nil {
		file.Close()
		os.Remove(local)
		fmt.Println()
		errorColor.Printf("Download failed: %v\n", err)
		return
	}
	fmt.Println()
	if err := file.Close(); err != nil {
		errorColor.Printf("Download failed: %v\n", err)
		return
	}
	successColor.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
}

func (s *session) cmdPut(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: put <local> [remote]")
		return
	}

	local := args[0]
	remote := filepath.Base(local)
	if len(args) > 1 {
		remote = args[1]
	}

	file, err := os.Open(local)
	if err != nil {
		errorColor.Printf("Upload failed: %v\n", err)
		return
	}
	defer file.Close()

	infoColor.Printf("Uploading %s -> %s\n", local, remote)
	start := time.Now()
	r := &ftpc.ProgressReader{Reader: file, Callback: printProgress}
	if err := s.client.Store(remote, r); err != nil {
		fmt.Println()
		errorColor.Printf("Upload failed: %v\n", err)
		return
	}
	fmt.Println()
	successColor.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
	s.completer.clearCache()
}

// printProgress redraws a single transfer status line.
func printProgress(bytesTransferred int64) {
	fmt.Printf("\r  %s transferred", fileutil.FormatSize(bytesTransferred))
}

func (s *session) cmdMkdir(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: mkdir <path>")
		return
	}
	if err := s.client.MakeDir(args[0]); err != nil {
		errorColor.Printf("mkdir failed: %v\n", err)
		return
	}
	successColor.Printf("Created %s\n", args[0])
	s.completer.clearCache()
}

func (s *session) cmdRmdir(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: rmdir <path>")
		return
	}
	if err := s.client.RemoveDir(args[0]); err != nil {
		errorColor.Printf("rmdir failed: %v\n", err)
		return
	}
	successColor.Printf("Removed %s\n", args[0])
	s.completer.clearCache()
}

func (s *session) cmdDelete(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: rm <path>")
		return
	}
	if err := s.client.Delete(args[0]); err != nil {
		errorColor.Printf("rm failed: %v\n", err)
		return
	}
	successColor.Printf("Deleted %s\n", args[0])
	s.completer.clearCache()
}

func (s *session) cmdRename(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) < 2 {
		errorColor.Println("Usage: rename <from> <to>")
		return
	}
	if err := s.client.Rename(args[0], args[1]); err != nil {
		errorColor.Printf("rename failed: %v\n", err)
		return
	}
	successColor.Printf("Renamed %s to %s\n", args[0], args[1])
	s.completer.clearCache()
}

func (s *session) cmdChmod(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) < 2 {
		errorColor.Println("Usage: chmod <mode> <path>  (mode as octal like 755 or as rwxr-xr-x)")
		return
	}

	mode := args[0]
	// Accept the symbolic form and translate it to octal for the server.
	if len(mode) == 9 {
		n := fileutil.ParsePermissions(mode)
		if n < 0 {
			errorColor.Printf("Invalid permission string: %s\n", mode)
			return
		}
		mode = fmt.Sprintf("%o", n)
	}

	reply, err := s.client.Quote("SITE", "CHMOD", mode, args[1])
	if err != nil {
		errorColor.Printf("chmod failed: %v\n", err)
		return
	}
	if !reply.Is2xx() {
		errorColor.Printf("chmod rejected: %d %s\n", reply.Code, reply.Message)
		return
	}

	if n, err := strconv.ParseInt(mode, 8, 32); err == nil {
		successColor.Printf("Mode of %s set to %s (%s)\n", args[1], mode, fileutil.FormatPermissions(int(n)))
	} else {
		successColor.Printf("Mode of %s set to %s\n", args[1], mode)
	}
}

func (s *session) cmdSize(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: size <path>")
		return
	}
	size, err := s.client.Size(args[0])
	if err != nil {
		errorColor.Printf("size failed: %v\n", err)
		return
	}
	fmt.Printf("%d bytes\n", size)
}

func (s *session) cmdMode(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		fmt.Printf("Connection mode: %s\n", s.client.ConnectionMode())
		return
	}
	switch strings.ToLower(args[0]) {
	case "passive":
		s.client.SetConnectionMode(ftpc.Passive)
	case "active":
		s.client.SetConnectionMode(ftpc.Active)
	default:
		errorColor.Println("Usage: mode [passive|active]")
		return
	}
	successColor.Printf("Connection mode set to %s\n", s.client.ConnectionMode())
}

func (s *session) cmdType(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: type [auto|ascii|binary]")
		return
	}
	switch strings.ToLower(args[0]) {
	case "auto":
		s.client.SetAutoTransferMode()
		successColor.Println("Transfer mode set per file by extension")
	case "ascii":
		s.client.SetTransferMode(ftpc.ASCII)
		successColor.Println("Transfer mode forced to ASCII")
	case "binary":
		s.client.SetTransferMode(ftpc.Binary)
		successColor.Println("Transfer mode forced to BINARY")
	default:
		errorColor.Println("Usage: type [auto|ascii|binary]")
	}
}

func (s *session) cmdQuote(args []string) {
	if !s.requireConnection() {
		return
	}
	if len(args) == 0 {
		errorColor.Println("Usage: quote <command> [args...]")
		return
	}

	reply, err := s.client.Quote(args[0], args[1:]...)
	if err != nil {
		errorColor.Printf("quote failed: %v\n", err)
		return
	}
	fmt.Printf("%d %s\n", reply.Code, reply.Message)
}

func (s *session) cmdNoop(args []string) {
	if !s.requireConnection() {
		return
	}
	if err := s.client.Noop(); err != nil {
		errorColor.Printf("noop failed: %v\n", err)
		return
	}
	successColor.Println("OK")
}

func (s *session) cmdHelp(args []string) {
	infoColor.Println("\nConnection:")
	fmt.Println("  open <host[:port]>     Connect to a server")
	fmt.Println("  login [user]           Authenticate (password prompted)")
	fmt.Println("  close                  Disconnect")
	fmt.Println("  noop                   Keep the connection alive")
	infoColor.Println("\nBrowsing:")
	fmt.Println("  ls [path]              Unix-style directory listing")
	fmt.Println("  mlsd [path]            Machine-readable listing")
	fmt.Println("  nlst [path]            Bare name listing")
	fmt.Println("  cd <path>              Change remote directory")
	fmt.Println("  pwd                    Show remote directory")
	fmt.Println("  size <path>            Show file size")
	infoColor.Println("\nTransfers:")
	fmt.Println("  get <remote> [local]   Download a file")
	fmt.Println("  put <local> [remote]   Upload a file")
	fmt.Println("  mode [passive|active]  Show or set the data connection mode")
	fmt.Println("  type auto|ascii|binary Set the transfer type policy")
	infoColor.Println("\nManagement:")
	fmt.Println("  mkdir <path>           Create a directory")
	fmt.Println("  rmdir <path>           Remove a directory")
	fmt.Println("  rm <path>              Delete a file")
	fmt.Println("  rename <from> <to>     Rename a file or directory")
	fmt.Println("  chmod <mode> <path>    Change permissions (octal or rwxr-xr-x form)")
	fmt.Println("  quote <cmd> [args]     Send a raw FTP command")
	fmt.Println("  help                   Show this help")
	fmt.Println("  exit                   Quit")
	fmt.Println()
}

// refreshDir re-reads the remote working directory for the prompt.
func (s *session) refreshDir() {
	dir, err := s.client.CurrentDir()
	if err != nil {
		s.logger.Debug("pwd for prompt failed", "err", err)
		return
	}
	s.remoteDir = dir
}

// Command ftpcli is an interactive FTP client shell with tab completion
// and colored output.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/fatih/color"

	"github.com/dconde/ftpc/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ftpcli: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	s := newSession(cfg, logger)

	// Disconnect cleanly on Ctrl+C outside the prompt loop
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT)
	go func() {
		<-sigChan
		s.close()
		fmt.Println()
		os.Exit(0)
	}()

	color.New(color.FgCyan, color.Bold).Println("ftpcli")
	fmt.Println("Type 'help' for available commands")

	p := prompt.New(
		s.execute,
		s.completer.complete,
		prompt.OptionTitle("ftpcli"),
		prompt.OptionLivePrefix(func() (string, bool) {
			if s.connected() {
				return fmt.Sprintf("%s:%s> ", s.host, s.remoteDir), true
			}
			return "ftp> ", true
		}),
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionCompletionWordSeparator(" "),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(buf *prompt.Buffer) {
				s.close()
				fmt.Println()
				os.Exit(0)
			},
		}),
	)
	p.Run()
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

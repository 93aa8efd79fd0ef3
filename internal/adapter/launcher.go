package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for URLs that are not http or https.
var ErrUnsupportedURL = errors.New("unsupported url")

// Launcher opens resource URLs in a browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	logger  *slog.Logger

	// start runs a command without waiting for it to exit
	start func(name string, args ...string) error
	// lookPath reports whether a command is on PATH
	lookPath func(file string) (string, error)
}

// systemOpeners is tried in order per platform when no command is configured
var systemOpeners = map[string][][]string{
	"darwin":  {{"open"}},
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"x-www-browser"}},
}

// NewLauncher creates a launcher. An empty command uses the system default.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		logger:   logger,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Open launches rawURL in the configured browser or system default
func (l *Launcher) Open(rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	// Tier 1: user configured a specific browser
	if l.command != "" {
		args := append(append([]string{}, l.args...), rawURL)
		l.logger.Info("launching configured browser", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	// Tier 2: platform openers in preference order
	openers, ok := systemOpeners[l.goos]
	if !ok {
		openers = systemOpeners["linux"]
	}
	for _, opener := range openers {
		if _, err := l.lookPath(opener[0]); err != nil {
			l.logger.Debug("opener not available", "command", opener[0], "error", err)
			continue
		}
		args := append(append([]string{}, opener[1:]...), rawURL)
		l.logger.Info("launching with system default", "os", l.goos, "command", opener[0], "url", rawURL)
		return l.start(opener[0], args...)
	}

	return fmt.Errorf("no browser found for %s", l.goos)
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	return nil
}

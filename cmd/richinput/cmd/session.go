// ABOUTME: Shared setup for the interactive subcommands: settings, terminal profile, charset and keymap
// ABOUTME: run puts the terminal in raw mode and drives the read alongside the keybinding watcher in an errgroup

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/mauromedda/richinput/internal/config"
	"github.com/mauromedda/richinput/internal/keybindings"
	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/terminal"
)

// session holds what every interactive subcommand needs.
type session struct {
	root     string
	settings *config.Settings
	profile  *capability.Profile
	enc      encoding.Encoding
	keys     *keybindings.Manager
	term     *terminal.ProcessTerminal
}

// loadSettings merges the config files, applies flag and environment
// overrides, and sets the log level.
func loadSettings() (*config.Settings, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting working directory: %w", err)
	}
	settings, err := config.Load(root)
	if err != nil {
		return nil, "", err
	}
	applyOverrides(settings)
	if err := settings.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid settings: %w", err)
	}

	switch {
	case viper.GetBool("verbose"):
		pilog.SetLevel(pilog.LevelDebug)
	case settings.LogLevel != "":
		level, _ := pilog.ParseLevel(settings.LogLevel)
		pilog.SetLevel(level)
	}
	return settings, root, nil
}

func applyOverrides(s *config.Settings) {
	if v := viper.GetString("terminal"); v != "" {
		s.Terminal = v
	}
	if v := viper.GetString("encoding"); v != "" {
		s.Encoding = v
	}
	if v := viper.GetString("log_level"); v != "" {
		s.LogLevel = v
	}
	if viper.IsSet("escape_timeout") {
		s.EscapeTimeout = viper.GetDuration("escape_timeout")
	}
	if viper.IsSet("recognize_unknown_csi") {
		on := viper.GetBool("recognize_unknown_csi")
		s.RecognizeUnknownCSI = &on
	}
}

func newSession() (*session, error) {
	settings, root, err := loadSettings()
	if err != nil {
		return nil, err
	}
	profile, err := capability.Resolve(settings.Terminal, capability.DefaultFallback)
	if err != nil {
		return nil, fmt.Errorf("resolving terminal: %w", err)
	}
	pilog.Debug("terminal %s from %s, %d key sequences", profile.Name, profile.Source, profile.Keys.Len())

	enc := decode.FromLocale(nil)
	if settings.Encoding != "" {
		if enc, err = decode.Lookup(settings.Encoding); err != nil {
			return nil, err
		}
	}

	keys := keybindings.New(config.GlobalKeybindingsFile(), config.ProjectKeybindingsFile(root))
	if err := keys.Err(); err != nil {
		pilog.Warn("keybindings: %v", err)
	}

	return &session{
		root:     root,
		settings: settings,
		profile:  profile,
		enc:      enc,
		keys:     keys,
		term:     terminal.NewProcessTerminal(),
	}, nil
}

// options returns the line editor options for the session's terminal.
func (s *session) options() richinput.Options {
	opts := richinput.Options{
		Encoding: s.enc,
		Input:    s.settings.InputOptions(),
		Keymap:   s.keys.Keymap(),
	}.WithProfile(s.profile)
	if w, _, err := s.term.Size(); err == nil {
		opts.Width = w
	}
	if s.term.IsTerminal() {
		opts.Cursor = s.term
	}
	return opts
}

// println writes a line that stays aligned whether or not the terminal is raw.
func (s *session) println(format string, args ...any) {
	fmt.Fprintf(s.term, format+"\r\n", args...)
}

// watcher reloads the keybinding files into rl when they change.
func (s *session) watcher(rl *richinput.RichLine) *config.Watcher {
	global := config.GlobalKeybindingsFile()
	local := config.ProjectKeybindingsFile(s.root)
	return config.NewWatcher([]string{global, local}, func() {
		s.keys.Reload(global, local)
		rl.SetKeymap(s.keys.Keymap())
		pilog.Info("keybindings reloaded")
		if err := s.keys.Err(); err != nil {
			pilog.Warn("keybindings: %v", err)
		}
	})
}

// run executes fn with the terminal in raw mode. When rl is set, resizes
// reach it and edited keybinding files are applied between reads. SIGTERM
// and SIGHUP cancel the context passed to fn.
func (s *session) run(ctx context.Context, rl *richinput.RichLine, fn func(ctx context.Context) error) error {
	if s.term.IsTerminal() {
		if err := s.term.EnterRawMode(); err != nil {
			return err
		}
		defer s.term.ExitRawMode()
	}
	defer terminal.RestoreOnPanic(s.term)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	readCtx, done := context.WithCancel(gctx)
	g.Go(func() error {
		defer done()
		defer terminal.RecoverGoroutine(s.term)
		return fn(readCtx)
	})
	if rl != nil {
		s.term.OnResize(func(w, _ int) { rl.SetWidth(w) })
		g.Go(func() error {
			defer terminal.RecoverGoroutine(s.term)
			return s.watcher(rl).Run(readCtx)
		})
	}
	return g.Wait()
}

// report prints how a read ended. It returns nil for the endings a user
// causes on purpose.
func (s *session) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		s.println("EOF")
		return nil
	case errors.Is(err, richinput.ErrAborted):
		s.println("Aborted.")
		return nil
	}
	return err
}

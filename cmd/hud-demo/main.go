package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/idursun/termhud/internal/config"
	"github.com/idursun/termhud/internal/haptics"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/screen"
	"github.com/idursun/termhud/internal/ui/host"
	"github.com/idursun/termhud/pkg/hud"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	logger, closeLog, err := openLogger(args)
	if err != nil {
		return err
	}
	defer closeLog()

	var script string
	if args.script != "" {
		src, err := os.ReadFile(args.script)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		script = string(src)
	}

	appearance := overlay.DefaultAppearance()
	if args.config != "" {
		c, err := config.Load(args.config)
		if err != nil {
			return err
		}
		if err := c.Apply(&appearance); err != nil {
			return fmt.Errorf("applying %s: %w", args.config, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	dark := args.dark || screen.HasDarkBackground()
	m := host.NewModel(newDemo(logger, script),
		host.WithContext(ctx),
		host.WithLogger(logger),
		host.WithDarkBackground(dark),
		host.WithOverlayOptions(
			overlay.WithAppearance(appearance),
			overlay.WithHaptics(haptics.NewBell()),
		),
	)
	hud.Setup(hud.WithOverlay(m.Overlay()))

	p := tea.NewProgram(host.Wrap(m),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	g.Go(func() error {
		defer stop()
		_, err := p.Run()
		if err != nil && ctx.Err() != nil {
			return nil
		}
		return err
	})
	if args.config != "" && args.watch {
		g.Go(func() error {
			return config.Watch(ctx, args.config, logger, func(c *config.Config) {
				hud.Shared().Overlay().Configure(func(a *overlay.Appearance) {
					if err := c.Apply(a); err != nil {
						logger.Warn("ignoring config", "path", args.config, "err", err)
					}
				})
			})
		})
	}
	return g.Wait()
}

func openLogger(args cliArgs) (*slog.Logger, func(), error) {
	if args.logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(args.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	level := slog.LevelInfo
	if args.debugLog {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

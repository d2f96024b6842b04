package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mbetti/go-ocho/ocho"
	"github.com/mbetti/go-ocho/ocho/backend"
	"github.com/mbetti/go-ocho/ocho/backend/terminal"
	"github.com/mbetti/go-ocho/ocho/timing"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "ocho"
	app.Description = "A CHIP-8 virtual machine"
	app.Usage = "ocho [options] <program image>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the program image",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Frontend to use: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "clock",
			Usage: "Instruction rate in instructions per second (timers always run at 60Hz)",
			Value: timing.DefaultClockRate,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing strategy: adaptive or ticker",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the register/disassembly panel in the terminal frontend",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Run the built-in test pattern instead of a program image",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	var emu *ocho.Emulator
	romPath := c.String("rom")

	if c.Bool("test-pattern") {
		emu = ocho.New(c.Int("clock"))
		if err := emu.LoadImage(ocho.TestPatternImage()); err != nil {
			return err
		}
		romPath = "test-pattern"
	} else {
		if romPath == "" {
			if c.NArg() > 0 {
				romPath = c.Args().Get(0)
			} else {
				cli.ShowAppHelp(c)
				return ocho.ErrNoImage
			}
		}

		var err error
		emu, err = ocho.NewWithFile(romPath, c.Int("clock"))
		if err != nil {
			return err
		}
	}

	switch c.String("limiter") {
	case "adaptive", "":
		// the emulator's default
	case "ticker":
		emu.SetLimiter(timing.NewTickerLimiter())
	default:
		return fmt.Errorf("unknown limiter %q", c.String("limiter"))
	}

	cfg := backend.Config{
		Title:     "ocho",
		ShowDebug: c.Bool("debug"),
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		snapshots, err := backend.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))

		emu.SetLimiter(timing.NewNoOpLimiter())
		return emu.Run(backend.NewHeadlessBackend(frames, snapshots), cfg)
	}

	switch c.String("backend") {
	case "terminal":
		return emu.Run(terminal.New(), cfg)
	case "sdl2":
		return emu.Run(backend.NewSDL2Backend(), cfg)
	default:
		return fmt.Errorf("unknown backend %q", c.String("backend"))
	}
}

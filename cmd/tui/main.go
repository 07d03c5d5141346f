package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/janpfeifer/GoMemory/internal/sound"
	"github.com/janpfeifer/GoMemory/internal/sound/speaker"
	"github.com/janpfeifer/GoMemory/internal/tui"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.ParseTerminal(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The terminal is taken by the game: logs go to a file.
	flag.Set("logtostderr", "false")
	flag.Set("alsologtostderr", "false")
	flag.Set("log_file", cfg.LogFile)
	defer klog.Flush()

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		klog.Errorf("GoMemory: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(cfg config.Terminal) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sounds, closeSounds := newSounds(cfg)
	defer closeSounds()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	gameCfg := game.DefaultConfig()
	if cfg.Seed != 0 {
		gameCfg.Rand = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	app := tui.New(screen, gameCfg, sounds)
	if cfg.Muted {
		app.Session().ToggleSound()
	}
	klog.Infof("GoMemory started: %s", app.Session().Snapshot().String())
	return app.Run(ctx, cfg.FrameInterval())
}

// newSounds opens the audio device and preloads the cues. Without audio the
// game still runs, silently.
func newSounds(cfg config.Terminal) (*sound.Registry, func()) {
	if cfg.Sounds == config.SoundsOff {
		return sound.NewRegistry(nil), func() {}
	}
	backend := speaker.New(beep.SampleRate(cfg.SampleRate))
	if err := backend.Init(); err != nil {
		klog.Warningf("Audio initialization failed, playing without sound: %v", err)
		return sound.NewRegistry(nil), func() {}
	}
	sounds := sound.NewRegistry(backend)
	if cfg.Sounds == config.SoundsSynth {
		sounds.PreloadAll(speaker.SynthLocators())
	} else {
		sounds.PreloadAll(sound.Locators(cfg.Sounds, ".wav"))
	}
	return sounds, backend.Close
}

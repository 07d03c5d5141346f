// Package config holds the command line configuration of the GoMemory
// commands. Defaults come from the environment, and flags override them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server configures the web host.
type Server struct {
	// Addr to listen on. Empty means an automatic port on localhost.
	Addr string `env:"GOMEMORY_ADDR"`

	// WebDir holds the static assets served under /web/.
	WebDir string `env:"GOMEMORY_WEB_DIR" envDefault:"web"`

	// StaticDir, if set, makes the server write a static website there and
	// exit instead of serving.
	StaticDir string `env:"GOMEMORY_STATIC_DIR"`

	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration `env:"GOMEMORY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Terminal configures the terminal version of the game.
type Terminal struct {
	// Sounds is "synth" for synthesized cues, "off" to disable audio, or a
	// directory holding one <cue>.wav file per cue.
	Sounds string `env:"GOMEMORY_SOUNDS" envDefault:"synth"`

	// SampleRate of the audio output.
	SampleRate int `env:"GOMEMORY_SAMPLE_RATE" envDefault:"44100"`

	// Muted starts the game with sound disabled.
	Muted bool `env:"GOMEMORY_MUTED"`

	// FrameRate of the confetti animation.
	FrameRate int `env:"GOMEMORY_FRAME_RATE" envDefault:"30"`

	// LogFile receives the logs, since the terminal is taken by the game.
	LogFile string `env:"GOMEMORY_LOG_FILE" envDefault:"gomemory.log"`

	// Seed for the card shuffles. Zero picks a random one.
	Seed uint64 `env:"GOMEMORY_SEED"`
}

// SoundsOff disables audio in Terminal.Sounds.
const SoundsOff = "off"

// SoundsSynth selects synthesized cues in Terminal.Sounds.
const SoundsSynth = "synth"

// DotEnvFile is the optional file with environment overrides, loaded by
// LoadDotEnv.
const DotEnvFile = ".env"

// LoadDotEnv sets the variables listed in the given files (DotEnvFile if none)
// that are not already set in the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DotEnvFile}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseServer loads the Server configuration from the environment, and then
// from the flags in args.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on (default: auto-port on localhost)")
	fs.StringVar(&cfg.WebDir, "web", cfg.WebDir, "Directory with the static assets served under /web/")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Generate a static website in this directory and exit")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}
	if cfg.WebDir == "" {
		return Server{}, errors.New("-web directory is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Server{}, fmt.Errorf("-shutdown-timeout must be > 0, got %s", cfg.ShutdownTimeout)
	}
	return cfg, nil
}

// ParseTerminal loads the Terminal configuration from the environment, and
// then from the flags in args.
func ParseTerminal(fs *flag.FlagSet, args []string) (Terminal, error) {
	var cfg Terminal
	if err := ParseEnv(&cfg); err != nil {
		return Terminal{}, err
	}
	fs.StringVar(&cfg.Sounds, "sounds", cfg.Sounds, `Sound cues: "synth", "off" or a directory of <cue>.wav files`)
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Audio sample rate")
	fs.BoolVar(&cfg.Muted, "mute", cfg.Muted, "Start with sound disabled")
	fs.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "Confetti animation frame rate")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "File receiving the logs")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Shuffle seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return Terminal{}, err
	}
	if cfg.Sounds == "" {
		return Terminal{}, errors.New("-sounds is required")
	}
	if cfg.SampleRate <= 0 {
		return Terminal{}, fmt.Errorf("-sample-rate must be > 0, got %d", cfg.SampleRate)
	}
	if cfg.FrameRate < 1 || cfg.FrameRate > 120 {
		return Terminal{}, fmt.Errorf("-fps must be within 1..120, got %d", cfg.FrameRate)
	}
	return cfg, nil
}

// FrameInterval is the time between two confetti frames.
func (t Terminal) FrameInterval() time.Duration {
	return time.Second / time.Duration(t.FrameRate)
}

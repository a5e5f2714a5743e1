//go:build windows

// godeaterfix is injected into the game process as a c-shared DLL:
//
//	go build -buildmode=c-shared -o GodEater1-2Fix.dll ./cmd/godeaterfix
//
// Loading the DLL runs the init sequence once on its own goroutine: open the
// log, load the settings, resolve the host module, then install the movie
// probe and the three signature fixes in order. The movie probe must come
// first so the resolution fix reads a meaningful flag from its first frame.
package main

import "C"

import (
	"log"
	"os"

	"godeaterfix/pkg/config"
	"godeaterfix/pkg/fix"
)

const (
	version    = "1.1.0"
	configFile = "GodEater1-2Fix.yml"
	logFile    = "GodEater1-2Fix.log"
)

func init() {
	go run()
}

func run() {
	logger := openLog()
	logger.Printf("-------------------------------------")
	logger.Printf("version: %s", version)

	f, err := config.Load(configFile)
	if err != nil {
		// No settings means no way to know what to fix.
		logger.Printf("fatal: %v", err)
		return
	}
	cfg, err := f.Derive(config.Desktop)
	if err != nil {
		logger.Printf("fatal: %v", err)
		return
	}
	logger.Printf("name: %s", cfg.Name)
	logger.Printf("masterEnable: %t", cfg.MasterEnable)
	logger.Printf("resolution: %dx%d", cfg.Width, cfg.Height)
	logger.Printf("aspect ratio: %v", cfg.AspectRatio)
	logger.Printf("native width: %d", cfg.NativeWidth)
	logger.Printf("native offset: %d", cfg.NativeOffset)
	logger.Printf("width scale: %v", cfg.WidthScale)

	env, err := fix.NewEnv(logger)
	if err != nil {
		logger.Printf("fatal: resolve host module: %v", err)
		return
	}

	st := fix.NewState(cfg)
	if err := fix.InstallMovieProbe(st, logger); err != nil {
		logger.Printf("movie: %v", err)
	}
	env.Apply(
		fix.AspectRatio(st),
		fix.Resolution(st),
		fix.ConstrainHud(st),
	)
}

// openLog never fails the startup sequence; with no writable log file the
// fixes still install, silently.
func openLog() *log.Logger {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(f, "", log.LstdFlags)
}

// main is required by buildmode=c-shared and never runs.
func main() {}

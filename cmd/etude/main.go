// Package main is the entry point for the etude score tool: it loads
// a score document (migrating foreign JSON when needed), optionally
// runs a Lua edit script against it, and writes the result back out.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etudehq/etude/internal/app"
	"github.com/etudehq/etude/internal/config"
	"github.com/etudehq/etude/internal/score"
	"github.com/etudehq/etude/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	scorePath   string
	scriptPath  string
	outPath     string
	configPath  string
	title       string
	grand       bool
	verbose     bool
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("etude %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	s, err := loadScore(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load score: %v\n", err)
		return 1
	}

	application := app.New(s, app.WithMaxHistory(cfg.MaxHistory))
	application.Logger().SetLevel(app.ParseLogLevel(cfg.LogLevel))
	if opts.verbose {
		application.Logger().SetLevel(app.LogLevelDebug)
	}

	if opts.scriptPath != "" {
		host := script.NewHost(application)
		if err := host.RunFile(opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: script failed: %v\n", err)
			return 1
		}
	}

	if opts.outPath != "" {
		if err := score.WriteFile(opts.outPath, application.Score()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write score: %v\n", err)
			return 1
		}
	} else if opts.scriptPath != "" {
		if err := score.Write(os.Stdout, application.Score()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write score: %v\n", err)
			return 1
		}
	}
	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.scorePath, "score", "", "score document to load (json or yaml)")
	flag.StringVar(&opts.scriptPath, "script", "", "lua script to run against the score")
	flag.StringVar(&opts.outPath, "o", "", "write the resulting score here (extension picks the format)")
	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "settings file (yaml)")
	flag.StringVar(&opts.title, "title", "Untitled", "title for a fresh score")
	flag.BoolVar(&opts.grand, "grand", false, "start a fresh score with a grand staff")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "etude", "config.yml")
}

// loadScore reads the given document, falling back to the tolerant
// migration path for scores written by other tools. Without a path a
// fresh score is created from the configured defaults.
func loadScore(opts options, cfg config.Config) (*score.Score, error) {
	if opts.scorePath == "" {
		var s *score.Score
		if opts.grand || cfg.GrandStaff {
			s = score.NewGrand(opts.title)
		} else {
			s = score.New(opts.title)
		}
		s.TimeSignature = cfg.TimeSignature
		s.BPM = cfg.BPM
		return s, nil
	}
	s, err := score.ReadFile(opts.scorePath)
	if err == nil {
		return s, nil
	}
	raw, rerr := os.ReadFile(opts.scorePath)
	if rerr != nil {
		return nil, err
	}
	return score.Migrate(raw)
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/wilbur182/disclosure/internal/config"
	"github.com/wilbur182/disclosure/internal/features"
	"github.com/wilbur182/disclosure/internal/styles"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = pflag.StringP("config", "c", "", "path to config file")
	logPath     = pflag.String("log", filepath.Join(os.TempDir(), "popuplab.log"), "log file")
	debugFlag   = pflag.Bool("debug", false, "enable debug logging")
	themeFlag   = pflag.String("theme", "", "color theme ("+strings.Join(styles.ListThemes(), ", ")+")")
	featureFlag = pflag.StringSlice("feature", nil, "feature override name=true|false (repeatable)")
	noWatch     = pflag.Bool("no-watch", false, "do not reload the config file when it changes")
	listFlag    = pflag.Bool("features", false, "list feature flags and exit")
	persistFlag = pflag.Bool("save", false, "write --theme and --feature values to the config file and exit")
	versionFlag = pflag.BoolP("version", "v", false, "print version and exit")
)

func main() {
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("popuplab version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// The alt screen owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if *configPath != "" {
		config.SetConfigPath(*configPath)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	features.Init(cfg)
	if err := applyFeatureOverrides(*featureFlag); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if *listFlag {
		printFeatures()
		os.Exit(0)
	}

	theme := cfg.UI.Theme.Name
	if *themeFlag != "" {
		if !styles.IsValidTheme(*themeFlag) {
			fmt.Fprintf(os.Stderr, "Unknown theme %q\n", *themeFlag)
			os.Exit(2)
		}
		theme = *themeFlag
	}
	if *persistFlag {
		if err := persist(*themeFlag, *featureFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("saved %s\n", config.ConfigPath())
		os.Exit(0)
	}
	styles.ApplyThemeWithOverrides(theme, cfg.UI.Theme.Overrides)

	path := config.ConfigPath()
	model := newLab(cfg, path, logger)

	if !*noWatch {
		watcher, err := config.NewWatcher(path)
		if err != nil {
			logger.Warn("config watcher unavailable", "err", err)
		} else {
			defer watcher.Stop()
			model.watch = watcher.Start()
		}
	}

	logger.Info("popuplab starting", "version", effectiveVersion(Version), "config", path, "theme", theme)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFeatureOverrides parses name=bool pairs into feature overrides.
func applyFeatureOverrides(pairs []string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			value = "true"
		}
		if !features.IsKnownFeature(name) {
			return fmt.Errorf("unknown feature %q", name)
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("feature %s: %w", name, err)
		}
		features.SetOverride(name, enabled)
	}
	return nil
}

// persist writes the theme and feature flags given on the command line to
// the config file.
func persist(theme string, pairs []string) error {
	if theme != "" {
		if err := config.SaveTheme(theme); err != nil {
			return err
		}
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			value = "true"
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("feature %s: %w", name, err)
		}
		if err := features.SetEnabled(name, enabled); err != nil {
			return err
		}
	}
	return nil
}

func printFeatures() {
	state := features.List()
	for _, f := range features.ListAll() {
		fmt.Printf("%-20s %-5v %s\n", f.Name, state[f.Name], f.Description)
	}
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return "devel+" + rev
		}
	}
	return "devel"
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: popuplab [options]\n\n")
		fmt.Fprintf(os.Stderr, "Try every popup kind in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}
}

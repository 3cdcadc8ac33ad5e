package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stuxhq/stux/pkg/loader"
	"github.com/stuxhq/stux/pkg/region"
)

var version = "0.1.0"

// app is the state shared by every command: configuration, logger and the
// region registry. It is filled in by the root command's PersistentPreRunE.
type app struct {
	v          *viper.Viper
	configPath string

	cfg    *Config
	logger *log.Logger
	reg    *region.Registry
	res    *region.Resolver
	sel    *region.Selection

	// shortcuts are the registry's landing school ids
	shortcuts []string

	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{v: newViper(), stderr: stderr}

	root := &cobra.Command{
		Use:   "stux",
		Short: "Browse a student community by region",
		Long: `stux shows community posts, exchange offers and insight questions
scoped to a region and everything beneath it in the region hierarchy.

With no subcommand it starts the interactive browser.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./stux.yaml or $XDG_CONFIG_HOME/stux/stux.yaml)")
	flags.String("registry", "", "region registry YAML file (default: built-in)")
	flags.String("feeds", "", "directory holding community.jsonl, exchange.jsonl and insight.jsonl (default: built-in)")
	flags.String("region", "", "default region (start region and fallback for untagged content)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	mustBind(a.v, "registry", flags.Lookup("registry"))
	mustBind(a.v, "feeds_dir", flags.Lookup("feeds"))
	mustBind(a.v, "default_region", flags.Lookup("region"))
	mustBind(a.v, "log.level", flags.Lookup("log-level"))

	browse := newBrowseCmd(a)
	root.RunE = browse.RunE
	root.Flags().AddFlagSet(browse.Flags())

	root.AddCommand(
		browse,
		newFeedCmd(a),
		newRegionsCmd(a),
		newScopeCmd(a),
		newCitiesCmd(a),
		newSchoolsCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
	)
	return root
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// setup loads configuration, the logger and the region registry
func (a *app) setup() error {
	cfg, err := loadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(a.stderr, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logger

	file, err := loader.LoadRegistryFile(cfg.Registry)
	if err != nil {
		return err
	}
	a.reg = file.Build(cfg.DefaultRegion)
	a.shortcuts = file.Shortcuts
	a.res = region.NewResolver(a.reg)
	a.sel = region.NewSelection(a.reg, a.res)

	if cfg.DefaultRegion != "" && !a.reg.Has(cfg.DefaultRegion) {
		a.logger.Warn("unknown default region, using registry default",
			"region", cfg.DefaultRegion, "default", a.reg.DefaultID())
	}
	for _, p := range region.Validate(a.reg) {
		a.logger.Warn("region hierarchy problem", "problem", p.String())
	}
	a.logger.Debug("registry loaded", "regions", a.reg.Len(), "default", a.reg.DefaultID())
	return nil
}

// loadFeeds reads every pillar from the configured directory
func (a *app) loadFeeds(ctx context.Context, logger *log.Logger) (*loader.Feeds, error) {
	return loader.LoadFeeds(ctx, a.cfg.FeedsDir, logger)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/buildinfo"
	"github.com/matzehuels/graphcore/pkg/config"
	"github.com/matzehuels/graphcore/pkg/rules"
)

// RootCommand creates the root cobra command with all subcommands
// registered. Before any subcommand runs, the config file is loaded, its
// log level applied unless --verbose is set, and its rulesets registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          config.AppName,
		Short:        "graphcore inspects governed graph snapshots",
		Long:         `graphcore loads node-link JSON snapshots of rule-governed graphs, checks them against their rules, runs graph algorithms and renders them with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphcore/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.algoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.rulesetsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	names, err := cfg.RegisterRulesets(rules.DefaultCatalog())
	if err != nil {
		return err
	}
	if len(names) > 0 {
		c.Logger.Debug("registered rulesets", "config", path, "rulesets", names)
	}
	return nil
}

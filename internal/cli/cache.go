package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/cache"
	"github.com/matzehuels/graphcore/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact and report cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts and reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			var n int
			switch b := ch.(type) {
			case *cache.FileCache:
				n, err = b.Clear()
				if err == nil {
					printSuccess("Cleared %d cached entries", n)
					printDetail("Directory: %s", b.Dir())
				}
			case *cache.RedisCache:
				n, err = b.Clear(cmd.Context())
				if err == nil {
					printSuccess("Cleared %d cached entries", n)
					printDetail("Redis: %s", c.Config.Redis.Addr)
				}
			default:
				printInfo("Caching is disabled")
			}
			return err
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintln(stdout, "redis://" + c.Config.Redis.Addr)
				return nil
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}

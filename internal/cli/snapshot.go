package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/collection"
	gio "github.com/matzehuels/graphcore/pkg/io"
	"github.com/matzehuels/graphcore/pkg/snapshotdb"
)

// snapshotCommand creates the snapshot command, which stores named
// snapshots in MongoDB.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and load named snapshots in MongoDB",
		Long: `Save and load named snapshots in MongoDB.

The connection is read from the [mongo] section of the config file.`,
	}
	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())
	return cmd
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <graph.json>",
		Short: "Validate a snapshot and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Restoring re-checks the rules, so invalid files never reach the database.
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = g.ID().String()
			}
			db, err := c.openSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())

			rec, err := db.Save(cmd.Context(), name, g.Snapshot())
			if err != nil {
				return err
			}
			printSuccess("Saved %s", StyleHighlight.Render(rec.Name))
			printDetail("%d nodes, %d edges, hash %s", rec.Nodes, rec.Edges, shortHash(rec.Hash))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name (default: graph ID)")
	return cmd
}

func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Fetch a stored snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())

			doc, _, err := db.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := collection.Restore(doc, collection.Options{Logger: c.Logger}); err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			if output == "" {
				return gio.WriteJSON(doc, stdout)
			}
			if err := gio.ExportJSON(doc, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())

			recs, err := db.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			printRecords(recs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())

			ok, err := db.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				printWarning("No snapshot named %s", args[0])
				return nil
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func printRecords(recs []snapshotdb.Record) {
	if len(recs) == 0 {
		printInfo("No snapshots stored")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(stdout, "  %s  %s\n", StyleHighlight.Render(r.Name),
			StyleDim.Render(fmt.Sprintf("%s, %d nodes, %d edges, %s", r.Kind, r.Nodes, r.Edges, r.SavedAt.Local().Format(time.DateTime))))
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

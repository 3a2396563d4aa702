package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/genehive/genehive/pkg/session"
	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

// treesCommand creates the trees command group for stored family trees.
func (c *CLI) treesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Browse and manage stored family trees",
	}

	cmd.AddCommand(c.treesListCommand())
	cmd.AddCommand(c.treesShowCommand())
	cmd.AddCommand(c.treesNewCommand())
	cmd.AddCommand(c.treesDeleteCommand())
	cmd.AddCommand(c.treesBrowseCommand())

	return cmd
}

// openTreeStore builds the file-based tree store from configuration.
func (c *CLI) openTreeStore() (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(cfg.Store.Dir)
}

// treesListCommand creates the "trees list" subcommand.
func (c *CLI) treesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trees, err := c.openTreeStore()
			if err != nil {
				return fmt.Errorf("open tree store: %w", err)
			}
			defer trees.Close(ctx)

			infos, err := trees.List(ctx)
			if err != nil {
				return fmt.Errorf("list trees: %w", err)
			}
			if len(infos) == 0 {
				printInfo("No stored trees")
				return nil
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Stored Trees"))
			printNewline()
			for _, info := range infos {
				fmt.Println(StyleValue.Render(info.Name) +
					StyleDim.Render(fmt.Sprintf("  %d members · %s", info.Members, formatRelativeTime(info.UpdatedAt))))
			}
			printNewline()
			return nil
		},
	}
}

// treesShowCommand creates the "trees show" subcommand.
func (c *CLI) treesShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a stored tree, optionally writing it to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trees, err := c.openTreeStore()
			if err != nil {
				return fmt.Errorf("open tree store: %w", err)
			}
			defer trees.Close(ctx)

			snap, err := trees.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if output != "" {
				if err := snapshot.WriteFile(snap, output); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				printFile(output)
				return nil
			}
			printTreeSummary(snap)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the snapshot to this file instead of printing")
	return cmd
}

// treesNewCommand creates the "trees new" subcommand.
func (c *CLI) treesNewCommand() *cobra.Command {
	var rootName string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new stored tree with a single root member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trees, err := c.openTreeStore()
			if err != nil {
				return fmt.Errorf("open tree store: %w", err)
			}
			defer trees.Close(ctx)

			if _, err := trees.Load(ctx, args[0]); err == nil {
				return fmt.Errorf("tree %q already exists", args[0])
			}

			root := snapshot.Member{ID: uuid.NewString(), Name: rootName}
			snap := snapshot.Snapshot{
				Version: snapshot.SchemaVersion,
				Name:    args[0],
				Members: []snapshot.Member{root},
			}
			if err := trees.Save(ctx, args[0], snap); err != nil {
				return fmt.Errorf("save tree: %w", err)
			}
			printSuccess("Created tree %q", args[0])
			printDetail("root member id: %s", root.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootName, "root-name", "", "display name for the initial root member")
	return cmd
}

// treesDeleteCommand creates the "trees delete" subcommand.
func (c *CLI) treesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trees, err := c.openTreeStore()
			if err != nil {
				return fmt.Errorf("open tree store: %w", err)
			}
			defer trees.Close(ctx)

			if err := trees.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// treesBrowseCommand creates the "trees browse" subcommand with an
// interactive list.
func (c *CLI) treesBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse stored trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	trees, err := c.openTreeStore()
	if err != nil {
		return fmt.Errorf("open tree store: %w", err)
	}
	defer trees.Close(ctx)

	infos, err := trees.List(ctx)
	if err != nil {
		return fmt.Errorf("list trees: %w", err)
	}
	if len(infos) == 0 {
		printInfo("No stored trees")
		return nil
	}

	model := NewTreeListModel(infos)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	m, ok := final.(TreeListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	snap, err := trees.Load(ctx, m.Selected.Name)
	if err != nil {
		return err
	}
	printTreeSummary(snap)
	return nil
}

// printTreeSummary prints a compact member listing for a snapshot.
func printTreeSummary(snap snapshot.Snapshot) {
	printNewline()
	title := snap.Name
	if title == "" {
		title = "Tree"
	}
	fmt.Println(StyleTitle.Render(title))
	printNewline()
	for _, m := range snap.Members {
		label := m.Name
		if label == "" {
			label = m.ID
		}
		detail := fmt.Sprintf("generation %d", m.Generation)
		if len(m.Diseases) > 0 {
			detail += fmt.Sprintf(" · %d diagnosed", len(m.Diseases))
		}
		fmt.Println(StyleValue.Render(label) + StyleDim.Render("  "+detail))
	}
	printNewline()
	printInfo("%d members, %d catalog entries", len(snap.Members), len(snap.Diseases))
}

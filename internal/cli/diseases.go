package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genehive/genehive/pkg/catalog"
	"github.com/genehive/genehive/pkg/pedigree"
)

// diseasesCommand creates the diseases command group for catalog inspection.
func (c *CLI) diseasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diseases",
		Short: "Inspect and manage the disease catalog",
	}

	cmd.AddCommand(c.diseasesListCommand())
	cmd.AddCommand(c.diseasesShowCommand())
	cmd.AddCommand(c.diseasesDeleteCommand())

	return cmd
}

// diseasesListCommand creates the "diseases list" subcommand.
func (c *CLI) diseasesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all diseases in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer closeCatalog(cat)

			diseases, err := cat.List(ctx)
			if err != nil {
				return fmt.Errorf("list diseases: %w", err)
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Disease Catalog"))
			printNewline()
			for _, d := range diseases {
				origin := ""
				if catalog.IsBuiltin(d.ID) {
					origin = StyleDim.Render("  builtin")
				}
				fmt.Println(StyleValue.Render(d.Name) + StyleDim.Render("  ("+d.ID+")") + origin)
				printDetail("%s · prevalence %.4f · penetrance %.2f", d.Inheritance, d.Prevalence, d.Penetrance)
			}
			printNewline()
			printInfo("%d diseases", len(diseases))
			return nil
		},
	}
}

// diseasesShowCommand creates the "diseases show" subcommand.
func (c *CLI) diseasesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one disease in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer closeCatalog(cat)

			d, err := cat.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printDisease(d)
			return nil
		},
	}
}

// diseasesDeleteCommand creates the "diseases delete" subcommand.
func (c *CLI) diseasesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a disease (builtin entries cannot be removed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer closeCatalog(cat)

			if err := cat.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func printDisease(d pedigree.Disease) {
	printNewline()
	fmt.Println(StyleTitle.Render(d.Name))
	printNewline()
	printKeyValue("ID", d.ID)
	printKeyValue("Inheritance", string(d.Inheritance))
	printKeyValue("Prevalence", fmt.Sprintf("%.4f", d.Prevalence))
	printKeyValue("Penetrance", fmt.Sprintf("%.2f", d.Penetrance))
	if d.Description != "" {
		printKeyValue("Description", d.Description)
	}
	if d.Color != "" {
		printKeyValue("Color", d.Color)
	}
	printNewline()
}

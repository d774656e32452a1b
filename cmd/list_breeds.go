package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"breed-gallery/pkg/breedtree"
	"breed-gallery/pkg/models"
	"breed-gallery/pkg/services"
)

var (
	parentStyle = lipgloss.NewStyle().Bold(true)
	childStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Faint(true)
)

// newListBreedsCmd creates a new command for listing the breed tree
func newListBreedsCmd() *cobra.Command {
	var search string
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "list-breeds",
		Short: "List all breeds and sub-breeds",
		Long: `List the breed tree. With --search only breeds whose label contains the text are
shown, and parents are expanded when one of their sub-breeds matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.InitService(cfg, logger)
			defer svc.Close()

			taxonomy, err := svc.Breeds(cmd.Context())
			if err != nil {
				return err
			}

			nodes := breedtree.Filter(breedtree.Build(taxonomy), search)
			listBreeds(cmd.OutOrStdout(), nodes, expandAll)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show breeds whose label contains this text")
	cmd.Flags().BoolVarP(&expandAll, "all", "a", false, "Show sub-breeds of every parent")
	return cmd
}

// listBreeds prints the breed tree with expanded parents showing their sub-breeds
func listBreeds(out io.Writer, nodes []models.BreedNode, expandAll bool) {
	fmt.Fprintln(out, "Dog Breeds:")
	fmt.Fprintln(out, "===========")

	subBreeds := 0
	for _, node := range nodes {
		marker := " "
		open := node.HasCaret && (node.Expanded || expandAll)
		if node.HasCaret {
			marker = "▸"
			if open {
				marker = "▾"
			}
		}
		fmt.Fprintf(out, "%s %s %s\n", marker, parentStyle.Render(node.Label), idStyle.Render(node.ID))

		subBreeds += len(node.Children)
		if !open {
			continue
		}
		for _, child := range node.Children {
			fmt.Fprintf(out, "    %s %s\n", childStyle.Render(child.Label), idStyle.Render(child.ID))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d breeds, %d sub-breeds\n", len(nodes), subBreeds)
}

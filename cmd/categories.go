package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the fake data categories usable with fake_update",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := fake.NewCatalog()
		for _, name := range catalog.Names() {
			c, err := catalog.Category(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-22s %-9s e.g. %v\n", c.Name, c.Kind, c.Value())
		}
	},
}

func init() {
	RootCmd.AddCommand(categoriesCmd)
}

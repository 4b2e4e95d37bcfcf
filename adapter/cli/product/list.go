package product

import (
	"fmt"
	"strings"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/catalog/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List available products",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListAvailableProductsHandler == nil {
			fmt.Println("Product listing requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		products, err := app.ListAvailableProductsHandler.Handle(cmd.Context(), queries.ListAvailableProductsQuery{})
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products available.")
			return nil
		}

		fmt.Printf("Products (%d):\n", len(products))
		fmt.Println(strings.Repeat("-", 70))
		for _, p := range products {
			fmt.Printf("%s | %s | %s\n", p.ID, p.Name, cli.FormatAmount(p.Price))
		}

		return nil
	},
}

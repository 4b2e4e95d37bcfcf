package tab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	registerCustomerID string
	registerItems      []string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a consumption tab",
	Long: `Register a new tab for a customer. Each --item takes a product id and
a quantity separated by a colon. Prices come from the catalog, never from
the caller.

Examples:
  comanda tab register --customer 7d4a... --item 3f1b...:2
  comanda tab register --customer 7d4a... --item 3f1b...:2 --item 9c2e...:1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RegisterConsumptionHandler == nil {
			fmt.Println("Tab registration requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		customerID, err := uuid.Parse(registerCustomerID)
		if err != nil {
			return fmt.Errorf("invalid customer ID: %w", err)
		}

		items, err := parseItems(registerItems)
		if err != nil {
			return err
		}

		result, err := app.RegisterConsumptionHandler.Handle(cmd.Context(), commands.RegisterConsumptionCommand{
			CustomerID: customerID,
			Items:      items,
		})
		if err != nil {
			return fmt.Errorf("failed to register tab: %w", err)
		}

		fmt.Println("Registered tab")
		fmt.Printf("  ID: %s\n", result.ConsumptionID)
		fmt.Printf("  Status: %s\n", result.Status)
		fmt.Printf("  Total: %s\n", cli.FormatAmount(result.TotalAmount))

		return nil
	},
}

// parseItems converts "product-id:quantity" pairs into command items.
func parseItems(raw []string) ([]commands.RegisterConsumptionItem, error) {
	items := make([]commands.RegisterConsumptionItem, 0, len(raw))
	for _, entry := range raw {
		productRaw, quantityRaw, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid item %q, expected <product-id>:<quantity>", entry)
		}

		productID, err := uuid.Parse(productRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid product ID in item %q: %w", entry, err)
		}

		quantity, err := strconv.ParseInt(quantityRaw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in item %q: %w", entry, err)
		}

		items = append(items, commands.RegisterConsumptionItem{
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	return items, nil
}

func init() {
	registerCmd.Flags().StringVarP(&registerCustomerID, "customer", "u", "", "customer id (required)")
	registerCmd.Flags().StringArrayVarP(&registerItems, "item", "i", nil, "item as <product-id>:<quantity> (repeatable)")
	_ = registerCmd.MarkFlagRequired("customer")
	_ = registerCmd.MarkFlagRequired("item")
}

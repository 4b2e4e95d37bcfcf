package tab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/consumption/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [tab-id]",
	Short: "Show one tab with its item lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetConsumptionDetailsHandler == nil {
			fmt.Println("Tab lookup requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		consumptionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid tab ID: %w", err)
		}

		details, err := app.GetConsumptionDetailsHandler.Handle(cmd.Context(), queries.GetConsumptionDetailsQuery{
			ConsumptionID: consumptionID,
		})
		if err != nil {
			if errors.Is(err, queries.ErrConsumptionNotFound) {
				fmt.Printf("Tab %s not found.\n", consumptionID)
				return nil
			}
			return fmt.Errorf("failed to load tab: %w", err)
		}

		fmt.Printf("Tab %s\n", details.ID)
		fmt.Printf("  Customer: %s\n", details.CustomerID)
		fmt.Printf("  Status: %s\n", details.Status)
		fmt.Printf("  Opened: %s\n", details.CreatedAt.Format("2006-01-02 15:04"))
		if details.PaymentReference != "" {
			fmt.Printf("  Payment reference: %s\n", details.PaymentReference)
		}
		if details.PaidAt != nil {
			fmt.Printf("  Paid at: %s\n", details.PaidAt.Format("2006-01-02 15:04"))
		}

		fmt.Println(strings.Repeat("-", 70))
		for _, item := range details.Items {
			fmt.Printf("  %dx %s @ %s = %s\n",
				item.Quantity,
				item.ProductID,
				cli.FormatAmount(item.UnitPrice),
				cli.FormatAmount(item.Total),
			)
		}
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  Total: %s\n", cli.FormatAmount(details.TotalAmount))

		return nil
	},
}

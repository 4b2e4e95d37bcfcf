package tab

import (
	"fmt"
	"strings"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/consumption/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	listCustomerID string
	listStatus     string
	listPayable    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a customer's tabs",
	Long: `List the tabs of one customer with status and total.

Examples:
  comanda tab list --customer 7d4a...
  comanda tab list --customer 7d4a... --status PENDING
  comanda tab list --customer 7d4a... --payable`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListCustomerConsumptionsHandler == nil {
			fmt.Println("Tab listing requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		customerID, err := uuid.Parse(listCustomerID)
		if err != nil {
			return fmt.Errorf("invalid customer ID: %w", err)
		}

		tabs, err := app.ListCustomerConsumptionsHandler.Handle(cmd.Context(), queries.ListCustomerConsumptionsQuery{
			CustomerID: customerID,
			Status:     listStatus,
			Payable:    listPayable,
		})
		if err != nil {
			return fmt.Errorf("failed to list tabs: %w", err)
		}

		if len(tabs) == 0 {
			if listPayable {
				fmt.Println("No payable tabs.")
			} else if listStatus != "" {
				fmt.Printf("No tabs with status %s.\n", listStatus)
			} else {
				fmt.Println("No tabs found.")
			}
			return nil
		}

		fmt.Printf("Tabs (%d):\n", len(tabs))
		fmt.Println(strings.Repeat("-", 70))

		for _, t := range tabs {
			fmt.Printf("[%s] %s | total: %s | opened: %s\n",
				t.Status,
				t.ID,
				cli.FormatAmount(t.TotalAmount),
				t.CreatedAt.Format("2006-01-02 15:04"),
			)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listCustomerID, "customer", "u", "", "customer id (required)")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (DRAFT, PENDING, PAID, OVERDUE)")
	listCmd.Flags().BoolVar(&listPayable, "payable", false, "show only tabs that can still be paid")
	_ = listCmd.MarkFlagRequired("customer")
}

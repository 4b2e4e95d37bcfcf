package customer

import (
	"errors"
	"fmt"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/customer/application/queries"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	identifyID    string
	identifyTaxID string
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify a customer by id or tax id",
	Long: `Look up a customer by their id or their tax id (CPF). Formatted and
bare CPF values are both accepted.

Examples:
  comanda customer identify --id 7d4a...
  comanda customer identify --tax-id 529.982.247-25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.IdentifyCustomerHandler == nil {
			fmt.Println("Customer lookup requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		if identifyID == "" && identifyTaxID == "" {
			return errors.New("either --id or --tax-id is required")
		}

		query := queries.IdentifyCustomerQuery{TaxID: identifyTaxID}
		if identifyID != "" {
			id, err := uuid.Parse(identifyID)
			if err != nil {
				return fmt.Errorf("invalid customer ID: %w", err)
			}
			query.CustomerID = id
		}

		customer, err := app.IdentifyCustomerHandler.Handle(cmd.Context(), query)
		if err != nil {
			if errors.Is(err, customerDomain.ErrNotFound) {
				fmt.Println("Customer not found.")
				return nil
			}
			return fmt.Errorf("failed to identify customer: %w", err)
		}

		fmt.Printf("Customer %s\n", customer.ID)
		fmt.Printf("  Name: %s\n", customer.FullName)
		fmt.Printf("  Tax ID: %s\n", customer.TaxID)

		return nil
	},
}

func init() {
	identifyCmd.Flags().StringVar(&identifyID, "id", "", "customer id")
	identifyCmd.Flags().StringVar(&identifyTaxID, "tax-id", "", "customer tax id (CPF)")
}

package tab

import (
	"fmt"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var payReference string

var payCmd = &cobra.Command{
	Use:   "pay [tab-id]",
	Short: "Confirm a tab's payment",
	Long: `Confirm that a pending or overdue tab was paid, recording the
provider's payment reference.

Examples:
  comanda tab pay 7d4a... --reference pix-9921`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ConfirmPaymentHandler == nil {
			fmt.Println("Payment confirmation requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		consumptionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid tab ID: %w", err)
		}

		err = app.ConfirmPaymentHandler.Handle(cmd.Context(), commands.ConfirmPaymentCommand{
			ConsumptionID:    consumptionID,
			PaymentReference: payReference,
		})
		if err != nil {
			return fmt.Errorf("failed to confirm payment: %w", err)
		}

		fmt.Printf("Tab %s marked as paid (reference: %s)\n", consumptionID, payReference)
		return nil
	},
}

func init() {
	payCmd.Flags().StringVarP(&payReference, "reference", "r", "", "payment reference from the provider (required)")
	_ = payCmd.MarkFlagRequired("reference")
}

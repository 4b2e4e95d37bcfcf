package tab

import (
	"fmt"

	"github.com/comanda-app/comanda/adapter/cli"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var pixCmd = &cobra.Command{
	Use:   "pix [tab-id]...",
	Short: "Generate one Pix code for one or more tabs",
	Long: `Generate a consolidated Pix code covering every listed tab. All tabs
must belong to the same customer and be open for payment.

Examples:
  comanda tab pix 7d4a...
  comanda tab pix 7d4a... 9c2e... 3f1b...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GeneratePixPaymentHandler == nil {
			fmt.Println("Pix generation requires database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid tab ID %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		result, err := app.GeneratePixPaymentHandler.Handle(cmd.Context(), commands.GeneratePixPaymentCommand{
			ConsumptionIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("failed to generate Pix code: %w", err)
		}

		fmt.Println("Pix code generated")
		fmt.Printf("  Amount: %s\n", cli.FormatAmount(result.Amount))
		fmt.Printf("  Payment ID: %s\n", result.PaymentID)
		fmt.Printf("  Code: %s\n", result.Code)

		return nil
	},
}

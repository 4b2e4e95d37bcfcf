// Package customer implements the customer command group.
package customer

import (
	"github.com/spf13/cobra"
)

// Cmd is the customer command group
var Cmd = &cobra.Command{
	Use:   "customer",
	Short: "Look up customers",
}

func init() {
	Cmd.AddCommand(identifyCmd)
}

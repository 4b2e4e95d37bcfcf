// Package product implements the product command group.
package product

import (
	"github.com/spf13/cobra"
)

// Cmd is the product command group
var Cmd = &cobra.Command{
	Use:   "product",
	Short: "Browse the product catalog",
}

func init() {
	Cmd.AddCommand(listCmd)
}

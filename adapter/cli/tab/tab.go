// Package tab implements the tab command group.
package tab

import (
	"github.com/spf13/cobra"
)

// Cmd is the tab command group
var Cmd = &cobra.Command{
	Use:   "tab",
	Short: "Manage customer tabs",
	Long:  `Register consumptions, list tabs, confirm payments, and generate consolidated Pix codes.`,
}

func init() {
	Cmd.AddCommand(registerCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(payCmd)
	Cmd.AddCommand(pixCmd)
}

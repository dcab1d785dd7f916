package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the proxyctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "proxyctl",
		Short: "Administer a running cache proxy",
	}
	root.PersistentFlags().String("admin-addr", "http://localhost:8081", "Admin API base URL")
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newDeleteCmd())
	return root
}

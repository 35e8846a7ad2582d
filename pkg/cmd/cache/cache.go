package cache

import (
	"github.com/spf13/cobra"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "commands to maintain the response cache",
	}
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

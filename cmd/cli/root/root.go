package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level "idle" command.
var RootCmd = &cobra.Command{
	Use:           "idle",
	Short:         "Idle clicker player CLI",
	Long:          "Command line client for claiming an idle clicker account, collecting currency and buying levels.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the omnibridge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("omnibridge version %s\n", version)
		},
	}
}

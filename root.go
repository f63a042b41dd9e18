package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "imgshrink",
		Short:         "Re-encode images at a lower quality and compare their sizes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			if err := loadConfig(configFlag); err != nil {
				return err
			}

			setupLogging(cmd.ErrOrStderr())

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newBotCommand())
	rootCmd.AddCommand(newCompressCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

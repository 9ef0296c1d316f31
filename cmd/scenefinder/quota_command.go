package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
)

func newQuotaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the API quota of the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}

			segments, err := svc.Quota(cmd.Context())
			if err != nil {
				return userError("查询失败", err)
			}

			printSegments(cmd.OutOrStdout(), segments)
			return nil
		},
	}
}

func newChatHelpCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chat-help",
		Short: "Print the help text chat users get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Help(cfg.CommandPrefix))
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	linkNotification int64
	linkViewer       int64
)

func init() {
	linkCmd.Flags().Int64VarP(&linkNotification, "notification", "n", 0, "notification row id")
	linkCmd.Flags().Int64VarP(&linkViewer, "viewer", "v", 0, "user viewing the notification")
	_ = linkCmd.MarkFlagRequired("notification")
	_ = linkCmd.MarkFlagRequired("viewer")
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print the deep link a viewer gets for a stored notification",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		ctx := context.Background()

		rt, err := openDeps(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer rt.close()

		n, err := rt.store.Notification(ctx, linkNotification)
		if err != nil {
			return fmt.Errorf("load notification %d: %w", linkNotification, err)
		}

		link, err := rt.engine.Link(ctx, n, linkViewer)
		if err != nil {
			return err
		}
		if link == "" {
			link = "/notifications"
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Notifications.SiteURL+link)
		return nil
	},
}

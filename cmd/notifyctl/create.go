package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"acc-notifications/internal/notification"

	"github.com/spf13/cobra"
)

var (
	createType  string
	createID    string
	createActor int64
	failOnError bool
)

func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", "", "notification type identifier")
	createCmd.Flags().StringVar(&createID, "id", "", "reference id of the triggering object")
	createCmd.Flags().Int64VarP(&createActor, "actor", "a", 0, "user id of the actor")
	createCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when the invocation is rejected")
	_ = createCmd.MarkFlagRequired("type")
	_ = createCmd.MarkFlagRequired("id")
	_ = createCmd.MarkFlagRequired("actor")
}

// createCmd is the entry point for scheduled callers. A rejected invocation is logged and, unless
// --fail-on-error is set, does not fail the command.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one notification",
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

		result, err := rt.engine.Create(ctx, notification.Request{ID: createID, Type: createType, ActorID: createActor})
		if err != nil {
			log.Error("Notification not created", map[string]interface{}{
				"type":  createType,
				"id":    createID,
				"error": err.Error(),
			})
			if failOnError {
				return fmt.Errorf("create %s %s: %w", createType, createID, err)
			}
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification commands",
	Long:  `Inspect and exercise the configured notification transport`,
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  `Render the test template and send it synchronously through the configured transport`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTestNotification(cmd.Context())
	},
}

var notifyTo string

const notifyTimeout = 30 * time.Second

func sendTestNotification(ctx context.Context) error {
	if notifyTo == "" {
		return errors.New("--to is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	renderer, err := notification.NewRenderer(config.Notification.SenderName, config.Notification.FrontendURL)
	if err != nil {
		return err
	}
	msg, err := renderer.Test(notifyTo)
	if err != nil {
		return err
	}

	delivery, closeDelivery, err := notification.NewDelivery(config.Notification, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeDelivery() }()

	ctx, cancel := internal.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	log.Info("sending test notification", "to", notifyTo, "transport", delivery.Transport(), "configured", delivery.Configured())
	if err := delivery.Send(ctx, msg); err != nil {
		return fmt.Errorf("test notification failed: %w", err)
	}
	log.Info("test notification sent", "to", notifyTo)
	return nil
}

func init() {
	notifyTestCmd.Flags().StringVar(&notifyTo, "to", "", "Recipient email address")

	notifyCmd.AddCommand(notifyTestCmd)

	rootCmd.AddCommand(notifyCmd)
}

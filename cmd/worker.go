package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that process work queued by the HTTP server.`,
}

// Notification worker command
var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Deliver notifications queued on Kafka",
	Long:  `Consume notification messages from the Kafka topic and deliver them over SMTP (or log them when SMTP is not configured).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startNotificationWorker()
	},
}

var (
	kafkaBrokers []string
	kafkaTopic   string
	kafkaGroupID string
)

func startNotificationWorker() error {
	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	kafkaCfg := config.Notification.Kafka
	if len(kafkaBrokers) > 0 {
		kafkaCfg.Brokers = kafkaBrokers
	}
	kafkaCfg.Topic = getStringFlag(kafkaTopic, kafkaCfg.Topic)
	kafkaCfg.GroupID = getStringFlag(kafkaGroupID, kafkaCfg.GroupID)
	if len(kafkaCfg.Brokers) == 0 || kafkaCfg.Topic == "" {
		return errors.New("kafka brokers and topic are required for the notification worker")
	}

	delivery := notification.NewMailDelivery(config.Notification, log)
	consumer := notification.NewConsumer(
		notification.NewKafkaReader(kafkaCfg.Brokers, kafkaCfg.Topic, kafkaCfg.GroupID),
		delivery,
		log,
	)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("failed to close kafka reader", "error", err)
		}
	}()

	log.Info("starting notification worker",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.Topic,
		"group_id", kafkaCfg.GroupID,
		"delivery", delivery.Transport())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return consumer.Run(ctx)
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().StringSliceVar(&kafkaBrokers, "brokers", nil, "Kafka brokers (overrides config)")
	notificationWorkerCmd.Flags().StringVar(&kafkaTopic, "topic", "", "Notification topic (overrides config)")
	notificationWorkerCmd.Flags().StringVar(&kafkaGroupID, "group-id", "", "Consumer group id (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}

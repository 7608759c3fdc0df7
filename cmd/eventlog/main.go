// Command eventlog is a durable NATS consumer that writes every chat event to the log.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chatbot-be/internal/config"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/pkg/events"
	pktNats "chatbot-be/pkg/nats"
)

func main() {
	durable := flag.String("durable", "eventlog", "durable consumer name")
	subject := flag.String("subject", pktNats.SubjectPrefix+">", "subject filter")
	logPath := flag.String("log", "logs/eventlog.log", "log file path")
	flag.Parse()

	cfg := config.Load()
	if cfg.Events.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	eventLogger := logger.NewZapLogger(*logPath, cfg.IsProduction())
	defer func() { _ = eventLogger.Sync() }()

	sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, *subject, *durable, func(_ context.Context, event events.Event) error {
		details := map[string]interface{}{"occurred_at": event.Timestamp()}
		for k, v := range event.Payload() {
			details[k] = v
		}
		eventLogger.Info("EVENTLOG", event.EventType(), details)
		return nil
	})
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	<-ctx.Done()
	log.Println("eventlog stopped")
}

// cmd/smtpcheck/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/email"
	"github.com/your-org/bakehouse-backend/internal/pkg/logger"
)

// smtpcheck sends one test message with the current email settings
func main() {
	to := flag.String("to", "", "recipient address (defaults to NOTIFY_EMAIL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg)

	recipient := *to
	if recipient == "" {
		recipient = cfg.External.Email.NotifyAddress
	}
	if recipient == "" {
		log.Fatal("No recipient: pass -to or set NOTIFY_EMAIL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	emailService := email.NewEmailService(cfg, log)
	if err := emailService.SendTestEmail(ctx, recipient); err != nil {
		log.WithError(err).WithField("provider", cfg.External.Email.Provider).Fatal("Send failed")
	}

	log.WithFields(logrus.Fields{
		"to":       recipient,
		"provider": cfg.External.Email.Provider,
	}).Info("Test email sent")
}

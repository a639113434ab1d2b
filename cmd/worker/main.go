package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyphotography/wedding-portal-backend/config"
	"github.com/skyphotography/wedding-portal-backend/internal/bootstrap"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
	cronjob "github.com/skyphotography/wedding-portal-backend/internal/notify/cron"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

// worker runs the scheduled-email dispatcher outside the API process.
//
//	worker run    start the cron loop until interrupted
//	worker once   dispatch everything currently due and exit
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker run|once")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.SetLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.OpenInfra(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer infra.Close()

	backend, err := bootstrap.NewBackend(ctx, cfg, infra)
	if err != nil {
		log.Fatalf("failed to init backend: %v", err)
	}

	d := cronjob.NewDispatcher(backend, bootstrap.NewMailer(ctx, cfg), cronjob.Options{
		Spec:          cfg.Email.DispatchSpec,
		RatePerSecond: cfg.Email.SendRatePerSecond,
		Branding: notify.Branding{
			CompanyName:      cfg.Branding.CompanyName,
			PhotographerName: cfg.Branding.PhotographerName,
		},
	})

	switch os.Args[1] {
	case "once":
		n, err := d.RunOnce(ctx)
		if err != nil {
			log.Fatalf("dispatch failed: %v", err)
		}
		log.Printf("dispatched %d scheduled emails", n)
	case "run":
		if err := d.Start(); err != nil {
			log.Fatalf("failed to start dispatcher: %v", err)
		}
		<-ctx.Done()
		d.Stop()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	contactsApp "github.com/aradsms/contacts_services/internal/contacts_service/app"
	contactsPostgres "github.com/aradsms/contacts_services/internal/contacts_service/repository/postgres"
	datashareApp "github.com/aradsms/contacts_services/internal/datashare_service/app"
	datasharePostgres "github.com/aradsms/contacts_services/internal/datashare_service/repository/postgres"
	"github.com/aradsms/contacts_services/internal/picker_service/adapters/device"
	"github.com/aradsms/contacts_services/internal/picker_service/adapters/pickerhost"
	pickerApp "github.com/aradsms/contacts_services/internal/picker_service/app"
	pickerDomain "github.com/aradsms/contacts_services/internal/picker_service/domain"
	"github.com/aradsms/contacts_services/internal/platform/config"
	"github.com/aradsms/contacts_services/internal/platform/database"
	"github.com/aradsms/contacts_services/internal/platform/logger"
	"github.com/aradsms/contacts_services/internal/platform/messagebroker"
	httptransport "github.com/aradsms/contacts_services/internal/public_api_service/transport/http"
)

const (
	serviceName     = "picker_service"
	shutdownTimeout = 15 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...")

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"nats_url", cfg.NATSURL,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"http_port", cfg.PublicAPIServicePort,
		"picker_host", cfg.PickerHostGRPCTarget,
		"device_type", cfg.DeviceType,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized")

	var publisher messagebroker.Publisher = messagebroker.NopPublisher{}
	if cfg.NATSURL != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSURL, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS, change events will be dropped", "url", cfg.NATSURL, "error", err)
		} else {
			defer natsClient.Close()
			publisher = natsClient
			appLogger.Info("NATS client connected", "url", cfg.NATSURL)
		}
	} else {
		appLogger.Info("NATS URL not configured, change events will not be published.")
	}

	pickerClient, err := pickerhost.NewClient(cfg.PickerHostGRPCTarget, appLogger)
	if err != nil {
		appLogger.Error("Failed to create picker host client", "target", cfg.PickerHostGRPCTarget, "error", err)
		os.Exit(1)
	}
	defer pickerClient.Close()

	target := pickerDomain.HostTarget{BundleName: cfg.PickerBundleName, AbilityName: cfg.PickerAbilityName}
	picker := pickerApp.NewApplication(pickerClient, device.NewStaticInfo(cfg.DeviceType), target, appLogger)

	contacts := contactsApp.NewApplication(
		contactsPostgres.NewPgContactRepository(dbPool, appLogger),
		contactsPostgres.NewPgGroupRepository(dbPool, appLogger),
		contactsPostgres.NewPgHolderRepository(dbPool, appLogger),
		publisher,
		appLogger,
	)
	datashare := datashareApp.NewApplication(datasharePostgres.NewPgProvider(dbPool, appLogger), publisher, appLogger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Picker:          picker,
		Contacts:        contacts,
		Datashare:       datashare,
		JWTAccessSecret: cfg.JWTAccessSecret,
		RequestTimeout:  cfg.RequestTimeout,
		Logger:          appLogger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.PublicAPIServicePort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
			return err
		}
		appLogger.Info("HTTP server stopped.")
		return nil
	})

	g.Go(func() error {
		stopSignal := make(chan os.Signal, 1)
		signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
			return nil
		case <-groupCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown failed", "error", err)
			return err
		}
		return nil
	})

	appLogger.Info("Service is ready and running.")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error", "error", err)
	}

	appLogger.Info("Service shutdown complete.")
}

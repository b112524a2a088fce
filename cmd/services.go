package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xvierd/detox-cli/internal/adapters/git"
	"github.com/xvierd/detox-cli/internal/adapters/hosts"
	"github.com/xvierd/detox-cli/internal/adapters/notification"
	"github.com/xvierd/detox-cli/internal/adapters/statefile"
	"github.com/xvierd/detox-cli/internal/adapters/storage"
	"github.com/xvierd/detox-cli/internal/clock"
	"github.com/xvierd/detox-cli/internal/config"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
	"github.com/xvierd/detox-cli/internal/services"
)

// Global dependencies
var (
	appConfig      *config.Config
	appSettings    domain.Settings
	logFile        *os.File
	logger         *log.Logger
	stateStore     *statefile.Store
	hostsBlocker   *hosts.Blocker
	storageAdapter ports.Storage
	detoxService   *services.DetoxService
	stateService   *services.StateService
)

// initializeServices sets up all the required services and adapters. A
// settings file that is missing or invalid is fatal.
func initializeServices() error {
	var err error
	appConfig, err = config.Load(configPath)
	if err != nil {
		return err
	}
	appSettings, err = appConfig.Settings()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(appConfig.DataDir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %w", domain.ErrIO, err)
	}

	logFile, err = os.OpenFile(config.GetLogPath(appConfig), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to open log: %w", domain.ErrIO, err)
	}
	logger = log.New(logFile, "detox: ", log.LstdFlags)

	if statePath == "" {
		statePath = config.GetStatePath(appConfig)
	}
	stateStore = statefile.New(statePath)

	hostsBlocker = hosts.NewBlocker(appConfig.HostsFile, appConfig.BackupFile, config.GetLockPath(appConfig))

	if dbPath == "" {
		dbPath = config.GetDBPath(appConfig)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	storageAdapter, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	sysClock := clock.System{}

	detoxService = services.NewDetoxService(services.DetoxDeps{
		Clock:      sysClock,
		Settings:   appSettings,
		Store:      stateStore,
		Blocker:    hostsBlocker,
		History:    storageAdapter.Completions(),
		Notifier:   notification.New(&appConfig.Notifications),
		Git:        git.NewDetector(),
		WorkingDir: workingDir,
		Logger:     logger,
	})
	stateService = services.NewStateService(sysClock, appSettings, stateStore, storageAdapter.Completions())

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if storageAdapter != nil {
		err = storageAdapter.Close()
		storageAdapter = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	return err
}

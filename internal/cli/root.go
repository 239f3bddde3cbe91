package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ewout/snapvault/internal/core/repository"
	"github.com/ewout/snapvault/internal/core/service"
	"github.com/ewout/snapvault/internal/infrastructure/snapshotfs"
	"github.com/ewout/snapvault/internal/infrastructure/sqlite"
	"github.com/ewout/snapvault/internal/logging"
	"github.com/ewout/snapvault/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snapvault",
	Short: "SnapVault - point-in-time backups for single-file databases",
	Long: `SnapVault manages point-in-time snapshots of a single-file database.

It provides:
- On-demand and scheduled snapshots of the primary data file
- Age-based retention pruning
- Snapshot download and deletion
- A backup audit trail
- REST API for remote administration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.New(cfg.LogLevel)

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/snapvault/config.yml)")
}

// initServices initializes all services
func initServices() (*Services, error) {
	db, err := sqlite.New(cfg.StateDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state database: %w", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	store := snapshotfs.New(cfg.BackupDir, logger)

	authService := service.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.JWTAlgorithm)
	backupService := service.NewBackupService(store, eventRepo, cfg.DataFile, cfg.RetentionWindow(), logger)

	return &Services{
		DB:            db,
		UserRepo:      userRepo,
		EventRepo:     eventRepo,
		AuthService:   authService,
		BackupService: backupService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB            *sqlite.DB
	UserRepo      repository.UserRepository
	EventRepo     repository.EventRepository
	AuthService   *service.AuthService
	BackupService *service.BackupService
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

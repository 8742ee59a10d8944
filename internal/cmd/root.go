package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/eventpro/eventpro/internal/app"
	"github.com/eventpro/eventpro/internal/config"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "eventpro",
	Short: "Event budget planner",
	Long:  "Plan event budgets by category, track payment deadlines and see them on a monthly calendar.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional, real environment variables win
		_ = godotenv.Load()
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (config.Application, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Application{}, err
	}
	// LOG_LEVEL set in main takes precedence over the configured level
	if os.Getenv("LOG_LEVEL") == "" && cfg.Log.Level != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return config.Application{}, err
		}
		log.SetLevel(level)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Errorf("failed to initialize application: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

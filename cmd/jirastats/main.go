package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/config"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/jira"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/report"
)

var (
	// Version information - set by build flags
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	// CLI flags
	configFile string
	verbose    bool
	outputDir  string
	cronSpec   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jirastats",
	Short: "Generate bug statistics reports from Jira filters",
	Long: `A command-line tool that turns a saved Jira filter into a bug statistics report.

The tool fetches every bug matching the filter, tallies the bugs by urgency
and status, and writes a styled Excel workbook together with a status
distribution pie chart into a timestamped output directory.`,
}

var reportCmd = &cobra.Command{
	Use:   "report <filter-id>",
	Short: "Generate a report for a saved filter",
	Long: `Generate a bug statistics report for a saved Jira filter.

The report process will:
1. Resolve the filter to its JQL query
2. Fetch every matching issue page by page
3. Tally the issues by urgency and status
4. Write an Excel workbook with summary and detail sheets
5. Render a status distribution pie chart`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <filter-id>",
	Short: "Generate reports on a recurring schedule",
	Long: `Run the report generation on a cron schedule until interrupted.

Each run writes into its own timestamped directory, so scheduled reports
never overwrite earlier ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for managing configuration files and settings.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Long:  "Create a new configuration file with default settings and examples.",
	RunE:  initConfig,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and connection",
	Long:  "Validate the configuration file and test the connection to Jira.",
	RunE:  validateConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version, commit, and build time of the application.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jirastats version %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
	},
}

func init() {
	// Root command flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file path (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Report command flags
	reportCmd.Flags().StringVar(&outputDir, "output", "", "Base directory for report output (default: use config)")

	// Schedule command flags
	scheduleCmd.Flags().StringVar(&outputDir, "output", "", "Base directory for report output (default: use config)")
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "0 9 * * *", "Cron expression controlling when reports run")

	// Add subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configInitCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	// Setup logger
	logger := setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override config with CLI flags
	if outputDir != "" {
		cfg.Report.BaseDir = outputDir
	}

	logger.Info("Starting bug statistics report...")
	logger.Info("Jira", "url", cfg.Jira.BaseURL)

	// Create client and engine
	client, err := jira.NewClient(&cfg.Jira, logger)
	if err != nil {
		return fmt.Errorf("failed to create Jira client: %w", err)
	}

	engine := report.NewEngine(client, cfg, report.DefaultStyle(), logger)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	result, err := engine.Run(ctx, args[0])
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	// Print summary
	printRunSummary(os.Stdout, result, logger)

	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if outputDir != "" {
		cfg.Report.BaseDir = outputDir
	}

	client, err := jira.NewClient(&cfg.Jira, logger)
	if err != nil {
		return fmt.Errorf("failed to create Jira client: %w", err)
	}

	engine := report.NewEngine(client, cfg, report.DefaultStyle(), logger)

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Warn("Error loading report timezone. Assuming server local", "error", err)
		loc = time.Local
	}

	filterID := args[0]
	scheduler := cron.New(cron.WithLocation(loc))
	_, err = scheduler.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := engine.Run(ctx, filterID)
		if err != nil {
			logger.Error("Scheduled report failed", "error", err)
			return
		}
		printRunSummary(os.Stdout, result, logger)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
	}

	logger.Info("Scheduler started", "cron", cronSpec, "filter", filterID, "timezone", loc.String())
	scheduler.Start()
	defer scheduler.Stop()

	// Run until interrupted
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Received interrupt signal, stopping scheduler...")

	return nil
}

func validateConfig(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("Configuration file is valid")

	// Test connection
	client, err := jira.NewClient(&cfg.Jira, logger)
	if err != nil {
		return fmt.Errorf("failed to create Jira client: %w", err)
	}

	ctx := context.Background()
	if err := client.TestConnection(ctx); err != nil {
		return fmt.Errorf("jira connection failed: %w", err)
	}

	logger.Info("✓ Jira connection successful")
	logger.Info("✓ Configuration is valid and ready for reporting")

	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	configPath := configFile
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		logger.Warn("Configuration file already exists", "path", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")
		var response string
		_, err := fmt.Scanln(&response)

		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if response != "y" && response != "Y" {
			logger.Info("Configuration initialization cancelled")
			return nil
		}
	}

	// Create default configuration
	defaultConfig := createDefaultConfig()

	if err := config.SaveConfig(defaultConfig, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	logger.Info("✓ Configuration file created", "path", configPath)
	logger.Info("Please edit the configuration file with your Jira settings")

	return nil
}

func createDefaultConfig() *config.Config {
	return &config.Config{
		Jira: config.JiraConfig{
			BaseURL:             "https://jira.your-company.com",
			Username:            "your-username",
			Password:            "your-password",
			PersonalAccessToken: "",
			PageSize:            50,
			Timeout:             30 * time.Second,
			UrgencyField:        "customfield_11214",
			TechnologyField:     "customfield_11219",
		},
		Report: config.ReportConfig{
			BaseDir:      ".",
			Timezone:     "Asia/Shanghai",
			WorkbookName: "bug_statistics.xlsx",
			ChartName:    "bug_status_pie_chart.png",
		},
	}
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{}

	if verbose {
		opts.Level = slog.LevelDebug
	} else {
		opts.Level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return logger
}

func printRunSummary(w io.Writer, result *report.Result, logger *slog.Logger) {
	// Zero-match runs are already logged by the engine.
	if result.Fetched == 0 {
		return
	}

	report.WriteSummaryTable(w, result.Table)

	logger.Info("=== Report Summary ===")
	logger.Info("Report results",
		"fetched", result.Fetched,
		"classified", result.Classified,
		"skipped", result.Skipped,
		"coerced", result.Coerced)
	logger.Info("Report duration", "duration", result.EndTime.Sub(result.StartTime))
	logger.Info("✓ Report completed", "output", result.OutputDir)
}

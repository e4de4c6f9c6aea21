package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/config"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/cron"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "ems-api",
	Short:         "True Wood EMS attendance and timesheet backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE:  runMigrateDown,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a monthly or yearly attendance report to a file",
	RunE:  runExport,
}

var markAbsentCmd = &cobra.Command{
	Use:   "mark-absent",
	Short: "Mark employees without a record as absent for one date",
	RunE:  runMarkAbsent,
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "apply pending migrations before serving")

	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")

	now := time.Now()
	exportCmd.Flags().Int("year", now.Year(), "report year")
	exportCmd.Flags().Int("month", 0, "working month (1-12); omit for the yearly report")
	exportCmd.Flags().String("format", report.FormatXLSX, "xlsx or pdf (pdf is monthly only)")
	exportCmd.Flags().String("out", ".", "output directory")

	markAbsentCmd.Flags().String("date", "", "date to mark (YYYY-MM-DD), defaults to yesterday")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(markAbsentCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the application logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("error building logger: %w", err)
	}
	return cfg, log.With(zap.String("env", cfg.App.Env)), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.RunMigrations(a.db, log); err != nil {
			return err
		}
	}

	scheduler := cron.NewScheduler(log.Named("cron"))
	if cfg.Cron.MarkAbsent {
		location, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
		cron.NewAttendanceJobs(a.attendanceService, location, log).
			RegisterJobs(scheduler, cfg.Cron.MarkAbsentInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.RunMigrations(db, log)
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	steps, _ := cmd.Flags().GetInt("steps")

	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.RollbackMigrations(db, steps, log)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("out")

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	var file report.ExportFile
	if month == 0 {
		file, err = a.reportService.ExportYearlyReport(ctx, report.YearlyReportRequest{Year: year, Format: format})
	} else {
		file, err = a.reportService.ExportMonthlyReport(ctx, report.MonthlyReportRequest{Year: year, Month: month, Format: format})
	}
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, file.Filename)
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("report written", zap.String("path", path), zap.Int("bytes", len(file.Content)))
	return nil
}

func runMarkAbsent(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return cron.NewAttendanceJobs(a.attendanceService, location, log).MarkAbsentEmployees(ctx)
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	marked, err := a.attendanceService.MarkAbsentees(ctx, date)
	if err != nil {
		return err
	}
	log.Info("absentees marked", zap.String("date", raw), zap.Int("count", marked))
	return nil
}

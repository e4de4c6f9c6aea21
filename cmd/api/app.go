package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/config"
	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	appHTTP "github.com/truewood-ems/ems-backend-go/internal/handler/http"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/cache"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/jwt"
	cacheRepo "github.com/truewood-ems/ems-backend-go/internal/repository/cache"
	"github.com/truewood-ems/ems-backend-go/internal/repository/postgresql"
	attendanceService "github.com/truewood-ems/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/truewood-ems/ems-backend-go/internal/service/auth"
	dashboardService "github.com/truewood-ems/ems-backend-go/internal/service/dashboard"
	employeeService "github.com/truewood-ems/ems-backend-go/internal/service/employee"
	holidayService "github.com/truewood-ems/ems-backend-go/internal/service/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/service/master"
	reportService "github.com/truewood-ems/ems-backend-go/internal/service/report"
	timesheetService "github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
	worksiteService "github.com/truewood-ems/ems-backend-go/internal/service/worksite"
)

const version = "v1.0.0"

// app holds everything the subcommands share once the database is reachable.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
	store  cache.Cache

	attendanceService attendance.AttendanceService
	reportService     report.ReportService
	router            *chi.Mux
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func openCache(cfg *config.Config, logger *zap.Logger) cache.Cache {
	if !cfg.Redis.Enabled {
		logger.Info("report cache disabled")
		return cache.NewNoopCache()
	}

	store, err := cache.NewRedisCache(cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", zap.Error(err))
		return cache.NewNoopCache()
	}
	return store
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := openCache(cfg, logger)

	// Repositories
	categoryRepo := postgresql.NewCategoryRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	weeklyOffRepo := postgresql.NewWeeklyOffRepository(db)
	workSiteRepo := postgresql.NewWorkSiteRepository(db)
	historyRepo := postgresql.NewScheduleHistoryRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	transactor := postgresql.NewTransactor(db)
	reportCache := cacheRepo.NewReportCache(store)

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := serviceAuth.NewAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, JWTService)
	masterSvc := master.NewMasterService(categoryRepo, departmentRepo, leaveTypeRepo, reportCache, logger.Named("master"))
	holidaySvc := holidayService.NewHolidayService(holidayRepo, weeklyOffRepo, reportCache, cfg.Report.OrgName, logger.Named("holiday"))
	workSiteSvc := worksiteService.NewWorkSiteService(workSiteRepo, historyRepo, transactor, reportCache, logger.Named("worksite"))
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, logger.Named("employee"))
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		leaveTypeRepo,
		holidaySvc,
		reportCache,
		transactor,
		logger.Named("attendance"),
	)
	timesheetSvc := timesheetService.NewTimesheetService(
		employeeRepo,
		categoryRepo,
		workSiteRepo,
		historyRepo,
		attendanceRepo,
		leaveTypeRepo,
		holidayRepo,
		weeklyOffRepo,
		logger.Named("timesheet"),
	)
	reportSvc := reportService.NewReportService(timesheetSvc, reportCache, cfg.Report.CacheTTL, cfg.Report.OrgName, logger.Named("report"))
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceRepo, holidayRepo, weeklyOffRepo)

	a := &app{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		store:             store,
		attendanceService: attendanceSvc,
		reportService:     reportSvc,
	}
	a.router = appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:                cfg.App.Env,
			Version:            version,
			CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewMasterHandler(masterSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
		appHTTP.NewWorkSiteHandler(workSiteSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewTimesheetHandler(timesheetSvc),
		appHTTP.NewReportHandler(reportSvc),
	)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close cache", zap.Error(err))
	}
	a.db.Close()
}

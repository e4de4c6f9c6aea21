package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/truewood-ems/ems-backend-go/internal/handler/http/middleware"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/jwt"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	Env                string
	Version            string
	CORSAllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	dashboardHandler DashboardHandler,
	masterHandler MasterHandler,
	holidayHandler HolidayHandler,
	workSiteHandler WorkSiteHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	timesheetHandler TimesheetHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "truewood-ems"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.GetDashboard)
				r.Get("/attendance", dashboardHandler.GetDailyAttendanceStats)
			})

			// Master data
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", masterHandler.ListCategories)
				r.Post("/", masterHandler.CreateCategory)
				r.Get("/{id}", masterHandler.GetCategory)
				r.Put("/{id}", masterHandler.UpdateCategory)
				r.Delete("/{id}", masterHandler.DeleteCategory)
			})
			r.Route("/departments", func(r chi.Router) {
				r.Get("/", masterHandler.ListDepartments)
				r.Post("/", masterHandler.CreateDepartment)
				r.Get("/{id}", masterHandler.GetDepartment)
				r.Put("/{id}", masterHandler.UpdateDepartment)
				r.Delete("/{id}", masterHandler.DeleteDepartment)
			})
			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", masterHandler.ListLeaveTypes)
				r.Post("/", masterHandler.CreateLeaveType)
				r.Get("/{id}", masterHandler.GetLeaveType)
				r.Put("/{id}", masterHandler.UpdateLeaveType)
				r.Delete("/{id}", masterHandler.DeleteLeaveType)
			})

			// Calendar
			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", holidayHandler.ListHolidays)
				r.Post("/", holidayHandler.CreateHoliday)
				r.Get("/calendar.ics", holidayHandler.ExportCalendar)
				r.Post("/import", holidayHandler.ImportCalendar)
				r.Get("/{id}", holidayHandler.GetHoliday)
				r.Put("/{id}", holidayHandler.UpdateHoliday)
				r.Delete("/{id}", holidayHandler.DeleteHoliday)
			})
			r.Route("/weekly-offs", func(r chi.Router) {
				r.Get("/", holidayHandler.GetWeeklyOffs)
				r.Put("/", holidayHandler.UpdateWeeklyOffs)
			})

			r.Route("/work-sites", func(r chi.Router) {
				r.Get("/", workSiteHandler.ListWorkSites)
				r.Post("/", workSiteHandler.CreateWorkSite)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", workSiteHandler.GetWorkSite)
					r.Put("/", workSiteHandler.UpdateWorkSite)
					r.Delete("/", workSiteHandler.DeleteWorkSite)
					r.Get("/history", workSiteHandler.ListScheduleHistory)
					r.Get("/schedule", workSiteHandler.GetScheduleOn)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)
				r.Get("/{id}", employeeHandler.GetEmployee)
				r.Put("/{id}", employeeHandler.UpdateEmployee)
				r.Delete("/{id}", employeeHandler.DeleteEmployee)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Post("/", attendanceHandler.Mark)
				r.Post("/bulk", attendanceHandler.BulkMark)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", attendanceHandler.Get)
					r.Put("/times", attendanceHandler.UpdateTimes)
					r.Delete("/", attendanceHandler.Delete)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/daily", timesheetHandler.GetDaily)
				r.Get("/monthly", timesheetHandler.GetMonthly)
				r.Get("/employees/{id}", timesheetHandler.GetEmployee)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/monthly", reportHandler.GetMonthlyReport)
				r.Get("/yearly", reportHandler.GetYearlyReport)
			})
		})
	})
	return r
}

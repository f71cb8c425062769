package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/schedulehub/backend/internal/config"
	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/payroll"
	"github.com/schedulehub/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	payroll             payroll.Collaborator
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notificationCh *amqp.Channel, payrollCollaborator payroll.Collaborator, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notificationCh,
		payroll:             payrollCollaborator,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
		})

		r.Route("/my-shifts", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyShifts)
			r.Get("/ics", h.ExportMyShiftsICS)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/generate", h.AutoGenerateSchedule)
			r.Get("/", h.GetAllSchedules)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedule)
				r.Get("/", h.GetSchedule)
				r.Get("/shifts", h.GetScheduleShifts)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/export", h.ExportSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteSchedule)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateShift)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/", h.GetShiftsByDate)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.Post("/clock-in", h.ClockIn)
				r.Post("/clock-out", h.ClockOut)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/cancel", h.CancelShift)
			})
		})

		r.Route("/shift-trades", func(r chi.Router) {
			r.Post("/", h.RequestTrade)
			r.Get("/", h.GetMyTrades)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTrade)
				r.Get("/", h.GetTrade)
				r.Post("/respond", h.RespondToTrade)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/decision", h.DecideTrade)
				r.Post("/cancel", h.CancelTrade)
			})
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.Get("/", h.GetAllShiftTemplates)
			r.Get("/{id}", h.GetShiftTemplate)
		})

		r.Route("/stations", func(r chi.Router) {
			r.Get("/", h.GetAllStations)
			r.Get("/requirements", h.GetStationRequirements)
		})

		r.Get("/coverage", h.GetCoverage)
	})
}

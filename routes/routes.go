package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/tennis-league/docs"
	"github.com/Dosada05/tennis-league/handlers"
	"github.com/Dosada05/tennis-league/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Challenge *handlers.ChallengeHandler
	Member    *handlers.MemberHandler
	Season    *handlers.SeasonHandler
	Chat      *handlers.ChatHandler
	Court     *handlers.CourtHandler
	Admin     *handlers.AdminHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimit      int // запросов в минуту с одного IP, 0 - без лимита
	RequestTimeout time.Duration
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.RateLimit > 0 {
		router.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// websocket живет дольше таймаута запроса, поэтому вне группы с Timeout
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/ws/league", h.WebSocket.ServeLeague)
		r.Get("/ws/challenges/{challengeID}", h.WebSocket.ServeChallenge)
	})

	router.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Get("/leaderboard", h.Member.Leaderboard)
		r.Get("/courts", h.Court.ListCourts)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.Member.ListMembers)
			r.Get("/{memberID}", h.Member.GetMember)
			r.Get("/user/{userID}", h.Member.GetMemberByUser)
			r.Get("/{memberID}/suggestions", h.Member.Suggestions)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Patch("/{memberID}", h.Member.UpdateMember)
				r.Post("/{memberID}/avatar", h.Member.UploadAvatar)
				r.With(middleware.RequireAdmin).Post("/", h.Member.CreateMember)
			})
		})

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.Season.ListSeasons)
			r.Get("/{seasonID}", h.Season.GetSeason)
			r.Get("/{seasonID}/enrollments", h.Season.ListEnrollments)
			r.Get("/{seasonID}/standings", h.Season.Standings)
			r.Get("/{seasonID}/pairings", h.Season.Pairings)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/{seasonID}/enroll", h.Season.Enroll)
				r.Delete("/{seasonID}/enroll/{memberID}", h.Season.Unenroll)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Season.CreateSeason)
					r.Patch("/{seasonID}/lock", h.Season.SetLocked)
					r.Post("/{seasonID}/email", h.Season.EmailDivision)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/challenges", func(r chi.Router) {
				r.Post("/", h.Challenge.CreateChallenge)
				r.Get("/member/{memberID}", h.Challenge.ListForMember)
				r.With(middleware.RequireAdmin).Get("/admin", h.Challenge.ListAdmin)

				r.Route("/{challengeID}", func(r chi.Router) {
					r.Get("/", h.Challenge.GetChallenge)
					r.Get("/invite.ics", h.Challenge.CalendarInvite)
					r.Patch("/status", h.Challenge.UpdateStatus)
					r.Patch("/schedule", h.Challenge.Reschedule)
					r.Post("/slots", h.Challenge.ProposeSlots)
					r.Post("/accept-slot", h.Challenge.AcceptSlot)
					r.Post("/report", h.Challenge.ReportResult)
					r.Post("/verify", h.Challenge.VerifyResult)
					r.With(middleware.RequireAdmin).Post("/override", h.Challenge.AdminOverride)
				})
			})

			r.Route("/chats/{challengeID}", func(r chi.Router) {
				r.Get("/", h.Chat.ListMessages)
				r.Post("/", h.Chat.SendMessage)
			})

			r.With(middleware.RequireAdmin).Post("/courts", h.Court.CreateCourt)
			r.With(middleware.RequireAdmin).Get("/admin/outbox", h.Admin.ListOutbox)
		})
	})
}

package routes

import (
	"net/http"

	"github.com/Dosada05/championship-manager/handlers"
	"github.com/Dosada05/championship-manager/middleware"
	"github.com/Dosada05/championship-manager/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	championshipHandler *handlers.ChampionshipHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/championships/{championshipID}", webSocketHandler.ServeWs)

	// Организаторы и администраторы
	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/championships", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/", championshipHandler.CreateChampionship)
				r.Get("/mine", championshipHandler.ListMyChampionships)
			})

			r.Route("/{championshipID}", func(r chi.Router) {
				// Публичные маршруты
				r.Get("/", championshipHandler.GetChampionship)
				r.Get("/teams", championshipHandler.ListTeams)
				r.Get("/matches", championshipHandler.ListMatches)
				r.Get("/classifications", championshipHandler.GetClassifications)
				r.Get("/strikers", championshipHandler.GetStrikers)

				r.Group(func(r chi.Router) {
					organizerOnly(r)
					r.Delete("/", championshipHandler.DeleteChampionship)
					r.Patch("/status", championshipHandler.UpdateStatus)
					r.Post("/teams", championshipHandler.AddTeam)
					r.Post("/brackets/knockout", championshipHandler.CreateBracket(models.FormatKnockout))
					r.Post("/brackets/league_system", championshipHandler.CreateBracket(models.FormatLeagueSystem))
					r.Post("/brackets/group_stage", championshipHandler.CreateBracket(models.FormatGroupStage))
				})
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Get("/goals", matchHandler.ListGoals)
			r.Get("/penalties", matchHandler.ListPenalties)
			r.Get("/fouls", matchHandler.ListFouls)
			r.Get("/teams/{teamID}/players", teamHandler.GetEligiblePlayers)

			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Patch("/", matchHandler.UpdateMatch)
				r.Post("/end", matchHandler.EndGame)
				r.Post("/walkover", matchHandler.Walkover)
				r.Post("/goals", matchHandler.CreateGoal)
				r.Post("/penalties", matchHandler.CreatePenalty)
				r.Post("/fouls", matchHandler.CreateFoul)
				r.Post("/lineup", matchHandler.SetLineup)
				r.Post("/replacements", matchHandler.CreateReplacement)
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", teamHandler.GetTeam)
			r.Get("/players", teamHandler.GetRoster)

			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/emblem", teamHandler.UploadEmblem)
			})
		})
	})
}

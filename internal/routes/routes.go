package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/willora/willora-backend/internal/handlers"
	"github.com/willora/willora-backend/internal/middleware"
	"github.com/willora/willora-backend/internal/services"
)

// Services are the use-case services the API is built on.
type Services struct {
	Auth      *services.AuthService
	Journals  *services.JournalService
	Stats     *services.StatsService
	Community *services.CommunityService
	Dashboard *services.DashboardService
	AI        *services.AIService
}

// SetupRoutes registers every API route. Each group states its identity
// requirement explicitly: required, optional or none.
func SetupRoutes(r chi.Router, svc Services, tokens middleware.TokenParser) {
	auth := handlers.NewAuthHandler(svc.Auth)
	journal := handlers.NewJournalHandler(svc.Journals, svc.Stats)
	community := handlers.NewCommunityHandler(svc.Community)
	dashboard := handlers.NewDashboardHandler(svc.Dashboard)
	ai := handlers.NewAIHandler(svc.AI)

	requireAuth := middleware.RequireAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	// No identity
	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)
	r.Post("/api/chat", ai.Chat)
	r.Get("/api/insights/quote", dashboard.Quote)

	// Required identity
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Put("/api/auth/update", auth.UpdateProfile)
		r.Get("/api/auth/me", auth.Me)

		r.Post("/api/journal", journal.Create)
		r.Get("/api/journal", journal.List)
		r.Delete("/api/journal/{id}", journal.Delete)
		r.Get("/api/journals/stats", journal.Stats)

		r.Route("/api/dashboard", func(r chi.Router) {
			r.Get("/recent-journals", dashboard.RecentJournals)
			r.Get("/mood-trend", dashboard.MoodTrend)
			r.Get("/stats", dashboard.Stats)
			r.Get("/community", dashboard.CommunityHighlights)
			r.Get("/tip", dashboard.Tip)
		})

		r.Post("/api/ai/analyze", ai.Analyze)
	})

	// Optional identity
	r.Route("/api/community", func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/", community.ListPosts)
		r.Post("/", community.CreatePost)
		r.Post("/{postId}/comments", community.AddComment)
		r.Get("/{postId}/comments", community.ListComments)
		r.Post("/{postId}/upvote", community.Upvote)
		r.Delete("/{postId}", community.DeletePost)
	})
}

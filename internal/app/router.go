package app

import (
	"net/http"

	"watchly/internal/handler"
	"watchly/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Health         *handler.HealthHandler
	Recommendation *handler.RecommendationHandler
	Movies         *handler.MovieHandler
	Profiles       *handler.ProfileHandler
	Follows        *handler.FollowHandler
	Logs           *handler.WatchLogHandler
	Feed           *handler.FeedHandler
	JWTSecret      string
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Authorization", "X-Client-Info", "Apikey"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	r.GET("/health", d.Health.GetHealth)
	r.GET("/metrics", middleware.MetricsHandler())

	limited := middleware.RateLimit(d.RateLimiter)
	r.POST("/functions/v1/get-mood-recommendations", limited, d.Recommendation.GetMoodRecommendations)

	api := r.Group("/api")
	api.POST("/recommendations", limited, d.Recommendation.GetMoodRecommendations)
	api.GET("/movies/popular", d.Movies.GetPopular)
	api.GET("/movies/search", d.Movies.SearchMovies)
	api.GET("/movies/:id", d.Movies.GetMovie)
	api.GET("/tv/search", d.Movies.SearchTV)
	api.GET("/media/search", d.Movies.SearchMedia)

	authed := api.Group("", middleware.RequireAuth(d.JWTSecret))
	authed.GET("/profiles/me", d.Profiles.GetMe)
	authed.PUT("/profiles/me", d.Profiles.UpdateMe)
	authed.GET("/profiles/search", d.Profiles.SearchProfiles)
	authed.GET("/profiles/:userId", d.Profiles.GetProfile)
	authed.GET("/profiles/:userId/stats", d.Profiles.GetStats)
	authed.GET("/profiles/:userId/followers", d.Profiles.GetFollowers)
	authed.GET("/profiles/:userId/following", d.Profiles.GetFollowing)
	authed.GET("/profiles/:userId/logs", d.Logs.GetUserLogs)
	authed.POST("/follows/:userId", d.Follows.Follow)
	authed.DELETE("/follows/:userId", d.Follows.Unfollow)
	authed.POST("/logs", d.Logs.CreateLog)
	authed.GET("/logs/me", d.Logs.GetMyLogs)
	authed.DELETE("/logs/:id", d.Logs.DeleteLog)
	authed.GET("/feed", d.Feed.GetFeed)

	return r
}

package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/tablero-app/planner-backend/internal/api/http"
	"github.com/tablero-app/planner-backend/internal/api/http/middleware"
	"github.com/tablero-app/planner-backend/internal/assistant"
	"github.com/tablero-app/planner-backend/internal/auth"
	authmw "github.com/tablero-app/planner-backend/internal/auth/middleware"
	"github.com/tablero-app/planner-backend/internal/chat"
	"github.com/tablero-app/planner-backend/internal/documents"
	"github.com/tablero-app/planner-backend/internal/quota"
	"github.com/tablero-app/planner-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	// Nil in development; requests then authenticate via the X-User-Id
	// header.
	FirebaseAuth   *fbauth.Client
	Assistant      *assistant.Client
	DailyChatLimit int64
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	if dep.FirebaseAuth != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.FirebaseAuth))
	} else {
		api.Use(auth.DevUser())
	}
	api.Use(middleware.RateLimitMiddleware(rate.Limit(10), 20))

	userRepo := users.NewRepo(dep.DB)
	api.Use(auth.WithUser(userRepo))

	docRepo := documents.NewRepo(dep.DB)
	documents.Register(api.Group("/documents"), docRepo)

	limiter := quota.NewLimiter(dep.Redis, dep.DailyChatLimit)
	chat.Register(api, dep.Assistant, limiter)

	return r
}

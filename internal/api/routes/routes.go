package routes

import (
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"linkup-service/internal/api/middleware"
	"linkup-service/internal/events"
	"linkup-service/internal/friendship"
	"linkup-service/internal/identity"
	"linkup-service/internal/user"
	"linkup-service/pkg/response"
)

type Router struct {
	engine            *gin.Engine
	userHandler       *user.Handler
	identityHandler   *identity.Handler
	friendshipHandler *friendship.Handler
	authMW            *middleware.AuthMiddleware
	rateLimitMW       *middleware.RateLimitMiddleware
}

// NewRouter wires repositories, services and handlers. redisClient, avatars
// and producer may be nil; the corresponding features degrade gracefully.
func NewRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	avatars user.AvatarStore,
	producer sarama.SyncProducer,
	jwtSecret string,
	eventTopic string,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogAPI())

	publisher := events.NewPublisher(producer, eventTopic)
	userCache := user.NewCache(redisClient)

	userRepo := user.NewRepository(db)
	friendshipRepo := friendship.NewRepository(db)

	userService := user.NewService(userRepo, userCache, avatars)
	identityService := identity.NewService(userRepo, userCache, publisher)
	friendshipService := friendship.NewService(friendshipRepo, userRepo, publisher)

	return &Router{
		engine:            engine,
		userHandler:       user.NewHandler(userService),
		identityHandler:   identity.NewHandler(identityService),
		friendshipHandler: friendship.NewHandler(friendshipService),
		authMW:            middleware.NewAuthMiddleware(jwtSecret, userService),
		rateLimitMW:       middleware.NewRateLimitMiddleware(redisClient),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")
	api.Use(r.authMW.RequireAuth())

	// Identity sync only needs a verified token; the local row may not exist
	// yet.
	idGroup := api.Group("/identity")
	idGroup.Use(r.rateLimitMW.RateLimit(30, time.Minute))
	{
		idGroup.POST("/sync", r.identityHandler.Sync)
	}

	// Everything else requires a synced local user.
	auth := api.Group("/")
	auth.Use(r.authMW.RequireUser())
	{
		users := auth.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			users.POST("", r.userHandler.Create)
			users.GET("/search", r.userHandler.Search)
			users.GET("/:id", r.userHandler.GetByID)
			users.PUT("/:id", r.userHandler.Update)
			users.POST("/:id/avatar", r.userHandler.UploadAvatar)
			users.GET("/:id/friends", r.friendshipHandler.GetFriends)
		}

		friends := auth.Group("/friends")
		friends.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			friends.POST("", r.friendshipHandler.SendRequest)
			friends.DELETE("", r.friendshipHandler.Remove)
			friends.GET("/requests/:userId", r.friendshipHandler.ListIncoming)
			friends.PUT("/:id/accept", r.friendshipHandler.Accept)
			friends.DELETE("/:id/reject", r.friendshipHandler.Reject)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

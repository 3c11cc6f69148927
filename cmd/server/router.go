package main

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/thereayou/eventnet/internal/config"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/handlers"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/services"
	"github.com/thereayou/eventnet/internal/session"
	ws "github.com/thereayou/eventnet/internal/websocket"
	"github.com/thereayou/eventnet/pkg/auth"
)

// Dependencies содержит внешние ресурсы, из которых собирается роутер
type Dependencies struct {
	Config      *config.Config
	Log         *zerolog.Logger
	DB          *database.Database
	Hub         *ws.Hub
	Revocations session.RevocationStore
}

func messageKeyFunc(c *gin.Context) string {
	return middleware.CurrentSession(c).UserID.String()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	dto.Error(c, http.StatusTooManyRequests, dto.TooManyRequests,
		"Too many requests. Try again in "+time.Until(info.ResetTime).Round(time.Second).String())
	c.Abort()
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func originAllowed(origins []string) func(string) bool {
	set := make(map[string]bool, len(origins))
	for _, o := range origins {
		set[o] = true
	}
	return func(origin string) bool {
		return set["*"] || set[origin]
	}
}

// NewRouter собирает сервисы, обработчики и маршруты
func NewRouter(d Dependencies) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(d.Config.JWTSecret, d.Config.TokenTTL)
	sessions := session.NewManager(jwtMgr, d.Revocations, d.DB)

	accounts := services.NewAuthService(d.DB, jwtMgr, d.Log)
	graph := services.NewConnectionGraph(d.DB, d.DB, d.Log)
	events := services.NewRegistrationAggregator(d.DB, d.DB, d.Log)
	chat := services.NewChatMembership(d.DB, d.DB, d.DB, d.Log)

	authH := handlers.NewAuthHandler(accounts, sessions, d.Hub, d.Log)
	userH := handlers.NewUserHandler(accounts, graph, d.Log)
	eventH := handlers.NewEventHandler(events, d.Log)
	connH := handlers.NewConnectionHandler(graph, d.Log)
	msgH := handlers.NewHTTPMessageHandler(chat, d.Log)
	wsH := handlers.NewWebSocketHandler(d.Hub, chat, d.Config.ChatPollInterval, originAllowed(d.Config.CORSOrigins), d.Log)

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: d.Config.MessageRateLimit,
	})
	msgLimiter := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      messageKeyFunc,
	})

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(d.Log), cors.New(corsConfig(d.Config.CORSOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		if err := d.DB.Ping(); err != nil {
			dto.Error(c, http.StatusServiceUnavailable, dto.ServiceUnavailable, "database unavailable")
			return
		}
		dto.OK(c, http.StatusOK, gin.H{
			"ws_clients":   d.Hub.ClientCount(),
			"online_users": len(d.Hub.OnlineUsers()),
		})
	})

	APIEndpoints(router, sessions, msgLimiter, authH, userH, eventH, connH, msgH, wsH)
	return router, nil
}

func APIEndpoints(
	r *gin.Engine,
	sessions *session.Manager,
	msgLimiter gin.HandlerFunc,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	eventH *handlers.EventHandler,
	connH *handlers.ConnectionHandler,
	msgH *handlers.HTTPMessageHandler,
	wsH *handlers.WebSocketHandler,
) {
	requireAuth := middleware.AuthMiddleware(sessions)

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", requireAuth, authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1", requireAuth)
	{
		api.GET("/me", userH.GetMe)
		api.PUT("/me", userH.UpdateMe)
		api.GET("/profiles", userH.Browse)

		api.GET("/events", eventH.List)
		api.POST("/events", eventH.Create)
		api.GET("/events/:id", eventH.Get)
		api.POST("/events/:id/registration", eventH.Register)
		api.DELETE("/events/:id/registration", eventH.Unregister)
		api.POST("/events/:id/attendance/:user_id", eventH.MarkAttended)

		api.GET("/connections", connH.ListAccepted)
		api.GET("/connections/pending", connH.ListPending)
		api.POST("/connections", connH.Request)
		api.POST("/connections/:id/respond", connH.Respond)
		api.GET("/connections/status/:user_id", connH.Status)

		api.GET("/chats", msgH.ListChats)
		api.GET("/chats/:id/messages", msgH.GetEventMessages)
		api.POST("/chats/:id/messages", msgLimiter, msgH.SendMessage)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(sessions), wsH.HandleWebSocket)
}

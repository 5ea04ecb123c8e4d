package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mnemosine-api/internal/armario"
	"mnemosine-api/internal/attachment"
	"mnemosine-api/internal/caja"
	"mnemosine-api/internal/cajita"
	"mnemosine-api/internal/config"
	"mnemosine-api/internal/db"
	"mnemosine-api/internal/middleware"
	"mnemosine-api/internal/nota"
	"mnemosine-api/internal/notify"
	"mnemosine-api/internal/reminder"
	"mnemosine-api/internal/storage"
	"mnemosine-api/internal/user"
	"mnemosine-api/internal/worker"
	"mnemosine-api/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Initialize Redis
	redis.InitRedis()
	cache := redis.NewCache(redis.RedisClient)

	// Background pool for storage cleanup work
	pool := worker.NewWorkerPool(4)

	// Object storage
	store, err := storage.NewMinioStore(
		config.AppConfig.MinioEndpoint,
		config.AppConfig.MinioAccessKey,
		config.AppConfig.MinioSecretKey,
		config.AppConfig.MinioBucket,
		config.AppConfig.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("error connecting to object storage %v", err)
	}

	// Notification channel
	telegram := notify.NewTelegram(
		config.AppConfig.TelegramAPIBase,
		config.AppConfig.TelegramBotToken,
		config.AppConfig.TelegramChatID,
	)

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	armarioRepo := armario.NewRepository(db.AppDb)
	cajaRepo := caja.NewRepository(db.AppDb)
	cajitaRepo := cajita.NewRepository(db.AppDb)
	notaRepo := nota.NewRepository(db.AppDb)
	eventReminderRepo := reminder.NewEventRepository(db.AppDb)
	internalReminderRepo := reminder.NewInternalRepository(db.AppDb)

	// Chain resolvers break the service cycle between containers and notas
	cajaChain := caja.NewChainResolver(cajaRepo, armarioRepo)
	cajitaChain := cajita.NewChainResolver(cajitaRepo, cajaChain)

	// Initialize services
	cleaner := attachment.NewCleaner(pool, store)
	notaService := nota.NewService(notaRepo, cajaChain, cajitaChain, cleaner, cache)
	cajitaService := cajita.NewService(cajitaRepo, cajaChain, notaService, cache)
	cajaService := caja.NewService(cajaRepo, armarioRepo, cajitaService, notaService, cache)
	armarioService := armario.NewService(armarioRepo, cajaService, cache)
	userService := user.NewService(userRepo, armarioService)
	attachmentService := attachment.NewService(notaService, store)
	reminderService := reminder.NewService(eventReminderRepo, internalReminderRepo)
	scanner := reminder.NewScanner(eventReminderRepo, internalReminderRepo, telegram, config.AppConfig.ScanInterval)

	// Seed database with initial data (for development)
	if config.AppConfig.Environment == "development" {
		db.SeedData(userService)
	}

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	armarioHandler := armario.NewHandler(armarioService)
	cajaHandler := caja.NewHandler(cajaService)
	cajitaHandler := cajita.NewHandler(cajitaService)
	notaHandler := nota.NewHandler(notaService)
	attachmentHandler := attachment.NewHandler(attachmentService)
	reminderHandler := reminder.NewHandler(reminderService, scanner)

	authMiddleware := &middleware.Auth{UserService: userService}
	bearer := authMiddleware.AuthMiddleware()

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", userHandler.Register)
		authRoutes.POST("/login", userHandler.Login)
		authRoutes.GET("/me", bearer, userHandler.Me)
	}

	armarios := router.Group("/armarios", bearer)
	{
		armarios.POST("", armarioHandler.Create)
		armarios.GET("", armarioHandler.ShowAll)
		armarios.GET("/:id", armarioHandler.Show)
		armarios.PUT("/:id", armarioHandler.Update)
		armarios.DELETE("/:id", armarioHandler.Delete)
	}

	cajas := router.Group("/cajas", bearer)
	{
		cajas.POST("", cajaHandler.Create)
		cajas.GET("/armario/:armarioId", cajaHandler.ShowByArmario)
		cajas.GET("/:id", cajaHandler.Show)
		cajas.PUT("/:id", cajaHandler.Update)
		cajas.DELETE("/:id", cajaHandler.Delete)
	}

	cajitas := router.Group("/cajitas", bearer)
	{
		cajitas.POST("", cajitaHandler.Create)
		cajitas.GET("/caja/:cajaId", cajitaHandler.ShowByCaja)
		cajitas.GET("/:id", cajitaHandler.Show)
		cajitas.PUT("/:id", cajitaHandler.Update)
		cajitas.DELETE("/:id", cajitaHandler.Delete)
	}

	notas := router.Group("/notas", bearer)
	{
		notas.POST("", notaHandler.Create)
		notas.GET("/search", notaHandler.Search)
		notas.GET("/etiquetas", notaHandler.Etiquetas)
		notas.GET("/container/:parentType/:parentId", notaHandler.ShowByContainer)
		notas.GET("/:id", notaHandler.Show)
		notas.PUT("/:id", notaHandler.Update)
		notas.PUT("/:id/move", notaHandler.Move)
		notas.DELETE("/:id", notaHandler.Delete)

		notas.GET("/:id/attachments", attachmentHandler.List)
		notas.POST("/:id/attachments", attachmentHandler.Add)
		notas.DELETE("/:id/attachments/:attachmentId", attachmentHandler.Remove)
	}

	reminders := router.Group("/reminders", bearer)
	{
		reminders.POST("", reminderHandler.CreateEvent)
		reminders.GET("", reminderHandler.ListEvents)
		reminders.GET("/event/:eventId", reminderHandler.ShowByEvent)
		reminders.PUT("/event/:eventId", reminderHandler.UpdateByEvent)
		reminders.DELETE("/event/:eventId", reminderHandler.DeleteByEvent)
		reminders.GET("/:id", reminderHandler.ShowEvent)
		reminders.DELETE("/:id", reminderHandler.DeleteEvent)
	}

	internalReminders := router.Group("/internal-reminders", bearer)
	{
		internalReminders.POST("", reminderHandler.CreateInternal)
		internalReminders.GET("", reminderHandler.ListInternal)
		internalReminders.GET("/:id", reminderHandler.ShowInternal)
		internalReminders.PUT("/:id", reminderHandler.UpdateInternal)
		internalReminders.PATCH("/:id/toggle-completed", reminderHandler.ToggleCompleted)
		internalReminders.DELETE("/:id", reminderHandler.DeleteInternal)
	}

	// external scheduler trigger
	router.POST("/check-reminders", middleware.CronAuthMiddleware(config.AppConfig.CronSecret), reminderHandler.CheckReminders)

	// Start the due-reminder scanner
	scanner.Start()

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	scanner.Stop()
	pool.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/api/handlers"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/queue"
	"github.com/maheshrc27/instaflow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	fbClient := graph.NewClient(graph.DefaultBaseURL)
	igClient := graph.NewClient(graph.DefaultInstagramBaseURL)

	oauthService := service.NewOAuthService(*cfg, fbClient, igClient)
	instagramService := service.NewInstagramService(*cfg, fbClient, igClient)
	messageService := service.NewMessageService(*cfg, fbClient, igClient)
	subscribeService := service.NewSubscribeService(*cfg, fbClient)
	mediaService := service.NewMediaService(*cfg)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Instagram Integration Server")
	})

	webhook := handlers.NewWebhookHandler(*cfg, queue.NewClient(client))
	app.Get("/webhook", webhook.Verify)
	app.Post("/webhook", webhook.Receive)

	media := handlers.NewMediaHandler(mediaService)
	app.Post("/media/upload", media.Upload)

	publish := handlers.NewPublishHandler(instagramService, messageService)
	app.Post("/feed/post", publish.FeedPost)
	app.Post("/story/post", publish.StoryPost)
	app.Post("/message/send", publish.SendMessage)

	flow := handlers.NewFlowHandler(*cfg, oauthService, instagramService, messageService, subscribeService)
	app.Get("/:flow/login", flow.Login)
	app.Get("/:flow/callback", flow.Callback)

	// webhook event worker
	webhookQueue := queue.NewQueue()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeWebhookEvent, webhookQueue.HandleWebhookEventTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)
	log.Printf("Feed posting: http://localhost:%s/feed/login", cfg.Port)
	log.Printf("Send message: http://localhost:%s/message/login", cfg.Port)
	log.Printf("Post story: http://localhost:%s/story/login", cfg.Port)
	log.Printf("Insight and comment: http://localhost:%s/insight/login", cfg.Port)

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}

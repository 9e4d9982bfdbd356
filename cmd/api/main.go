package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"chatline/internal/adapter/api"
	"chatline/internal/adapter/api/handler"
	"chatline/internal/adapter/api/router"
	"chatline/internal/adapter/repository"
	domainrepo "chatline/internal/domain/repository"
	"chatline/internal/infrastructure/websocket"
	"chatline/internal/usecase"
	"chatline/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var chatRepo domainrepo.ChatRepository

	if cfg.FirestoreProject != "" {
		var opts []option.ClientOption
		if cfg.ServiceAccountJSON != "" {
			log.Printf("Using service account from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
		} else if cfg.ServiceAccountPath != "" {
			log.Printf("Using service account from file: %s", cfg.ServiceAccountPath)
			opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
		}

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirestoreProject, opts...)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		chatRepo = repository.NewFirestoreChatRepository(firestoreClient)
	} else {
		if cfg.Environment != "development" {
			log.Fatalf("FIRESTORE_PROJECT_ID is required outside development")
		}
		log.Printf("FIRESTORE_PROJECT_ID not set, using in-memory store")
		chatRepo = repository.NewMemoryChatRepository()
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	messageUseCase := usecase.NewMessageUseCase(chatRepo, wsManager)
	queryUseCase := usecase.NewQueryUseCase(chatRepo)
	seenUseCase := usecase.NewSeenUseCase(chatRepo, wsManager)
	deletionUseCase := usecase.NewDeletionUseCase(chatRepo, wsManager)

	chatHandler := handler.NewChatHandler(messageUseCase, queryUseCase, seenUseCase, deletionUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	router.Setup(e, chatHandler, wsHandler, healthHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"skillswap/internal/adapter/api"
	"skillswap/internal/adapter/api/handler"
	apimiddleware "skillswap/internal/adapter/api/middleware"
	"skillswap/internal/adapter/api/router"
	"skillswap/internal/adapter/repository"
	"skillswap/internal/infrastructure/firebase"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/internal/infrastructure/storage"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
	"skillswap/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	requestRepo := repository.NewFirestoreRequestRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	broadcastRepo := repository.NewFirestoreBroadcastRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient, cfg.FirebaseApiKey)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	wsManager := websocket.NewManager()

	notifier := usecase.NewNotifier(requestRepo, chatRepo, broadcastRepo, wsManager)
	chatStreamer := usecase.NewChatStreamer(chatRepo, wsManager)
	wsManager.OnConnect(func(userID string) {
		notifier.Watch(ctx, userID)
	})
	wsManager.OnDisconnect(func(userID string) {
		notifier.Stop(userID)
		chatStreamer.StopAll(userID)
	})
	wsManager.OnJoinRoom(func(userID, chatID string) {
		chatStreamer.Join(ctx, userID, chatID)
	})
	wsManager.OnLeaveRoom(chatStreamer.Leave)
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, requestRepo, storageClient, rateLimiter)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, requestRepo, wsManager, rateLimiter)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, userRepo, chatUseCase, rateLimiter)
	broadcastUseCase := usecase.NewBroadcastUseCase(broadcastRepo, wsManager)
	notificationUseCase := usecase.NewNotificationUseCase(requestRepo, chatRepo, broadcastRepo)

	handler.Setup(authUseCase, userUseCase, requestUseCase, chatUseCase, broadcastUseCase, notificationUseCase)
	handler.SetupHealthHandler(firebaseAuthClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)
	bannedMiddleware := apimiddleware.NewBannedMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.SetupHealthRouter(e)
	router.SetupAuthRouter(e, authMiddleware)
	router.SetupSessionRouter(e, authMiddleware)
	router.SetupUserRouter(e, authMiddleware, bannedMiddleware)
	router.SetupRequestRouter(e, authMiddleware, bannedMiddleware)
	router.SetupChatRouter(e, wsHandler, authMiddleware, bannedMiddleware)
	router.SetupBroadcastRouter(e, authMiddleware, bannedMiddleware)
	router.SetupAdminRouter(e, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

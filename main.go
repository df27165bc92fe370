package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/identity"
	"backend/internal/middleware"
	"backend/internal/storage"
	"backend/internal/store"
	"backend/internal/users"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}

	blob, err := storage.NewClient(storage.Config{
		Bucket:    config.AppEnv.StorageBucket,
		CredsJSON: config.AppEnv.StorageCredsJSON,
		CredsFile: config.AppEnv.StorageCredsFile,
	})
	if err != nil {
		log.Fatal(err)
	}

	idsvc, err := identity.NewClient(config.AppEnv.IdentityURL, config.AppEnv.IdentityAPIKey)
	if err != nil {
		log.Fatal(err)
	}

	documents := store.NewMongo(db)
	fetcher := users.NewFetcher(documents)
	guard := middleware.NewSubmitGuard()

	r := gin.Default()
	r.Use(middleware.RequestID())

	r.GET("/", handlers.Home())
	r.GET("/healthz", handlers.Healthz())
	r.POST("/auth/login", handlers.Login(idsvc))

	api := r.Group("/api")
	api.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		api.GET("/options", handlers.Options())

		api.GET("/users", handlers.ListUsers(documents))
		api.GET("/users/:id", handlers.GetUser(fetcher))
		api.PUT("/users/:id",
			middleware.OneInFlight(guard, "account"),
			handlers.UpdateUserDetails(documents, fetcher),
		)
		api.POST("/users",
			middleware.OneInFlight(guard, "users"),
			handlers.CreateUser(idsvc),
		)

		api.GET("/products", handlers.ListProducts(documents))
		api.POST("/products",
			middleware.OneInFlight(guard, "products"),
			handlers.CreateProduct(documents, blob),
		)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

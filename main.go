package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"designmarket/internal/config"
	"designmarket/internal/database"
	"designmarket/internal/handlers"
	"designmarket/internal/middleware"
)

func buildRouter(db *mongo.Database) *gin.Engine {
	secret := config.AppEnv.JWTSecret
	ttl := config.AppEnv.AccessTokenTTL
	auth := middleware.UserAuth(secret)

	r := gin.Default()
	r.Use(cors.Default())

	api := r.Group("/api")

	// USERS
	api.POST("/register", handlers.Register(db))
	api.POST("/login", handlers.Login(db, secret, ttl))
	api.GET("/google/auth", handlers.GoogleAuth(
		config.AppEnv.GoogleClientID,
		config.AppEnv.GoogleClientSecret,
		config.AppEnv.GoogleRedirectURL,
	))
	api.GET("/google/callback", handlers.GoogleCallback(
		db,
		config.AppEnv.GoogleClientID,
		config.AppEnv.GoogleClientSecret,
		config.AppEnv.GoogleRedirectURL,
		secret,
		ttl,
	))
	api.GET("/userinfo", auth, handlers.GetUserInfo(db))
	api.PUT("/userinfo", auth, handlers.UpdateUserInfo(db))

	// COLLECTIONS
	api.POST("/collections", auth, handlers.CreateCollection(db))
	api.PUT("/collections/:id", auth, handlers.UpdateCollection(db))
	api.DELETE("/collections/:id", auth, handlers.DeleteCollection(db))
	api.GET("/collections", auth, handlers.ListCollections(db))
	api.GET("/collections/:id/products", auth, handlers.GetCollectionProducts(db))
	api.GET("/collections/by-designer/:designerId", handlers.GetCollectionsByDesigner(db))

	// PRODUCTS
	api.POST("/products", auth, handlers.CreateProduct(db))
	api.PUT("/products/:id", auth, handlers.UpdateProduct(db))
	api.DELETE("/products/:id", auth, handlers.DeleteProduct(db))
	api.GET("/products/:id", handlers.GetProductByID(db))
	api.GET("/products/:id/sizes", handlers.GetProductSizes(db))
	api.POST("/products/list", handlers.ListProduct(db))
	api.GET("/products/listed", handlers.GetListedProducts(db))

	// SIZES
	api.POST("/sizes", auth, handlers.AddSize(db))
	api.PUT("/sizes/:id", auth, handlers.UpdateSize(db))
	api.DELETE("/sizes/:id", auth, handlers.DeleteSize(db))

	// DESIGNERS
	api.GET("/designers", handlers.GetAllDesigners(db))

	// PUBLIC
	public := api.Group("/public")
	public.GET("/collections", handlers.ListCollections(db))
	public.GET("/collections/:id", handlers.GetCollectionByID(db))
	public.GET("/collections/:id/products", handlers.GetCollectionProducts(db))
	public.GET("/collections/address/:address", handlers.GetCollectionByAddress(db))
	public.GET("/designers/username/:username", handlers.GetDesignerByUsername(db))
	public.GET("/designers/:designerId", handlers.GetDesignerByID(db))

	// NFTS
	api.POST("/saveNFT", handlers.CreateNFT(db))
	api.GET("/nfts", handlers.GetAllNFTs(db))

	// LISTINGS
	api.POST("/listings", handlers.CreateListing(db))

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})

	return r
}

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
	if err := database.EnsureCollectionIndexes(db); err != nil {
		log.Printf("collection index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}

	r := buildRouter(db)

	log.Println("> API server ready on http://localhost:" + config.AppEnv.Port)
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}

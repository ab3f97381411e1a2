package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"gharbazaar/internal/infra/config"
	"gharbazaar/internal/infra/obs"
)

type ListingHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
}

type OwnerListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Delete(c *gin.Context)
	ScorePreview(c *gin.Context)
	UploadPhoto(c *gin.Context)
	RemovePhoto(c *gin.Context)
	SetPrimaryPhoto(c *gin.Context)
}

type AdminListingHTTP interface {
	Reject(c *gin.Context)
	Block(c *gin.Context)
	GrantPremium(c *gin.Context)
}

type Handlers struct {
	Listing      ListingHTTP
	OwnerListing OwnerListingHTTP
	AdminListing AdminListingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-Admin-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Search)
		api.GET("/listings/:id", h.Listing.Get)
	}
	if h.OwnerListing != nil {
		myGroup := api.Group("/my/listings")
		myGroup.GET("", h.OwnerListing.List)
		myGroup.POST("", h.OwnerListing.Create)
		myGroup.GET("/:id", h.OwnerListing.Get)
		myGroup.PUT("/:id", h.OwnerListing.Update)
		myGroup.POST("/:id/publish", h.OwnerListing.Publish)
		myGroup.DELETE("/:id", h.OwnerListing.Delete)
		myGroup.GET("/:id/score", h.OwnerListing.ScorePreview)
		myGroup.POST("/:id/photos", h.OwnerListing.UploadPhoto)
		myGroup.DELETE("/:id/photos/:key", h.OwnerListing.RemovePhoto)
		myGroup.POST("/:id/photos/:key/primary", h.OwnerListing.SetPrimaryPhoto)
	}
	if h.AdminListing != nil {
		adminGroup := api.Group("/admin/listings")
		adminGroup.POST("/:id/reject", h.AdminListing.Reject)
		adminGroup.POST("/:id/block", h.AdminListing.Block)
		adminGroup.POST("/:id/premium", h.AdminListing.GrantPremium)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

package server

import (
	"net/http"

	"github.com/flangeqc/flangeqc/internal/config"
	"github.com/flangeqc/flangeqc/internal/handlers"
	"github.com/flangeqc/flangeqc/internal/middleware"
	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionName = "flangeqc_session"

func NewRouter(cfg *config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.Log))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectUser(h.Users))

	// tool certificates
	r.Static("/uploads", h.Uploads.Dir())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// AUTH
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)

	// everything below needs a session when AUTH_REQUIRED is set
	auth := api.Group("/")
	admin := []gin.HandlerFunc{}
	if cfg.AuthRequired {
		auth.Use(middleware.RequireAuth())
		admin = append(admin, middleware.RequireRole(models.RoleAdmin))
	}
	adminOnly := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), fn)
	}

	auth.GET("/users", adminOnly(h.ListUsers)...)
	auth.DELETE("/users/:id", adminOnly(h.DeleteUser)...)

	// HIERARCHY
	auth.GET("/customers", h.ListCustomers)
	auth.POST("/customers", h.CreateCustomer)
	auth.GET("/customers/:id", h.GetCustomer)
	auth.DELETE("/customers/:id", adminOnly(h.DeleteCustomer)...)

	auth.GET("/assets", h.ListAssets)
	auth.POST("/assets", h.CreateAsset)
	auth.DELETE("/assets/:id", adminOnly(h.DeleteAsset)...)

	auth.GET("/projects", h.ListProjects)
	auth.POST("/projects", h.CreateProject)
	auth.DELETE("/projects/:id", adminOnly(h.DeleteProject)...)

	auth.GET("/workpacks", h.ListWorkpacks)
	auth.POST("/workpacks", h.CreateWorkpack)
	auth.DELETE("/workpacks/:id", adminOnly(h.DeleteWorkpack)...)

	// FLANGES
	auth.GET("/flanges", h.ListFlanges)
	auth.GET("/flanges/all", h.ListAllFlanges)
	auth.GET("/flanges/by-project", h.ListFlangesByProject)
	auth.POST("/flanges", h.CreateFlange)
	auth.GET("/flanges/:id", h.GetFlange)
	auth.PUT("/flanges/:id", h.UpdateFlange)
	auth.PUT("/flanges/:id/details", h.UpdateFlangeDetails)
	auth.DELETE("/flanges/:id", adminOnly(h.DeleteFlange)...)
	auth.GET("/flanges/:id/signoff-sheet.pdf", h.SignoffSheet)

	// SIGN-OFF
	auth.POST("/flanges/:id/advance", h.AdvanceFlange)
	auth.POST("/flanges/:id/passes", h.RecordPass)
	auth.POST("/flanges/:id/final-pass", h.RecordFinalPass)
	auth.POST("/flanges/:id/update-status", adminOnly(h.UpdateFlangeStatus)...)

	auth.POST("/upload-toolcert/:flangeId", h.UploadToolCert)

	return r
}

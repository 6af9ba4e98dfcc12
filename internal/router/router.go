package router

import (
	"net/http"
	"strings"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/config"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/handler"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/middleware"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	sessions := session.NewStore(db, cfg.Session.TTLDays, cfg.Session.Secret)

	// 每个请求先解析会话，再记审计日志
	r.Use(middleware.ResolveSession(sessions, cfg.Session.CookieName))
	r.Use(middleware.AuditMiddleware(db))

	// ====== 页面 ======
	page := func(tmpl, title string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.HTML(http.StatusOK, tmpl, gin.H{
				"title": title,
				"user":  middleware.CurrentUser(c),
			})
		}
	}

	r.GET("/", page("index.html", "F1 Website"))
	r.GET("/constructorsPage", page("constructorsPage.html", "Constructors"))
	r.GET("/driversPage", page("driversPage.html", "Drivers"))
	r.GET("/contact", page("contact.html", "Contact"))
	r.GET("/mongo", page("filters.html", "Filters"))
	r.GET("/drivers/ver", page("ver.html", "Max Verstappen"))
	r.GET("/drivers/nor", page("lando.html", "Lando Norris"))
	r.GET("/drivers/pia", page("piastri.html", "Oscar Piastri"))

	// 登录页直接回首页（首页自带登录表单）
	r.GET("/login", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	// 管理员页面
	r.GET("/add", middleware.RequireAdminPage(), page("add.html", "Add Data"))
	r.GET("/sqll", middleware.RequireAdminPage(), page("sqll.html", "Drivers CRUD"))
	r.GET("/constructor-manager", middleware.RequireAdminPage(), page("constructor-manager.html", "Constructor Manager"))
	r.GET("/admin", middleware.RequireAdminPage(), page("admin.html", "Admin Panel"))

	// 登录后页面
	r.GET("/dashboard", middleware.RequireAuthPage(), handler.Dashboard(db))

	// ====== 认证 ======
	authHandler := handler.NewAuthHandler(db, sessions, cfg.Session.CookieName, cfg.Session.CookieSecure)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", middleware.RequireAuthAPI(), authHandler.Logout)

	r.POST("/profile", middleware.RequireAuthAPI(), handler.UpdateProfile(db))
	r.POST("/send-data", middleware.RequireAuthAPI(), handler.SendContact(db))

	// ====== API ======
	api := r.Group("/api")
	// 写方法统一要求登录（/api/auth/status 除外）
	api.Use(middleware.APIWriteGuard())

	api.GET("/auth/status", authHandler.Status)
	api.GET("/info", handler.Info)
	api.GET("/search", handler.Search(db))

	constructorHandler := handler.NewConstructorHandler(db)
	api.GET("/constructors", constructorHandler.List)
	api.GET("/constructors/stats", constructorHandler.Stats)
	api.GET("/constructors/export.xlsx", middleware.RequireAdminAPI(), constructorHandler.ExportXLSX)
	api.GET("/constructors/:id", constructorHandler.Get)
	api.POST("/constructors", middleware.RequireAdminAPI(), constructorHandler.Create)
	api.PUT("/constructors/:id", middleware.RequireAdminAPI(), constructorHandler.Update)
	api.DELETE("/constructors/:id", middleware.RequireAdminAPI(), constructorHandler.Delete)

	driverHandler := handler.NewDriverHandler(db)
	api.GET("/drivers", driverHandler.List)
	api.POST("/drivers", middleware.RequireAdminAPI(), driverHandler.Create)
	api.PUT("/drivers/:id", middleware.RequireAdminAPI(), driverHandler.Update)
	api.DELETE("/drivers/:id", middleware.RequireAdminAPI(), driverHandler.Delete)

	api.POST("/favorites/add", middleware.RequireAuthAPI(), handler.AddFavorite(db))
	api.POST("/favorites/remove", middleware.RequireAuthAPI(), handler.RemoveFavorite(db))

	adminHandler := handler.NewAdminHandler(db)
	api.GET("/notifications", middleware.RequireAuthAPI(), adminHandler.ListNotifications)

	adminAPI := api.Group("/admin", middleware.RequireAdminAPI())
	adminAPI.GET("/users", adminHandler.ListUsers)
	adminAPI.PATCH("/users/:id/role", adminHandler.UpdateRole)
	adminAPI.PATCH("/users/:id/status", adminHandler.UpdateStatus)
	adminAPI.DELETE("/users/:id", adminHandler.DeleteUser)
	adminAPI.POST("/notifications", adminHandler.CreateNotification)
	adminAPI.GET("/notifications", adminHandler.ListNotifications)

	// ====== 404 ======
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "API endpoint not found",
				"message": "The requested API endpoint " + c.Request.URL.Path + " does not exist",
			})
			return
		}
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"title":      "Page Not Found",
			"message":    "The page you are looking for does not exist.",
			"currentUrl": c.Request.URL.Path,
			"user":       middleware.CurrentUser(c),
		})
	})

	return r
}

package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zubinqayam/zq-portfolio/internal/store"
	"github.com/zubinqayam/zq-portfolio/internal/view"
)

// registerAdminRoutes sets up the admin area. Without configured credentials
// the routes are not registered at all.
func (s *Server) registerAdminRoutes(r *gin.Engine) {
	if !s.cfg.AdminEnabled() {
		s.logger.Warn("admin area disabled: set admin.username and admin.password to enable it")
		return
	}
	s.logger.Info("admin access available at /admin/login")
	if gin.Mode() == gin.DebugMode {
		s.logger.Debug("admin token (dev only)", "token", s.adminToken)
	}

	r.GET("/admin/login", func(c *gin.Context) {
		renderHTML(c, http.StatusOK, view.AdminLogin(""))
	})
	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", "client", s.hashIP(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())
	admin.GET("/dashboard", s.adminStats)
	admin.GET("/submissions", s.adminSubmissions)
	admin.GET("/subscribers", s.adminSubscribers)
	admin.GET("/visitors", s.adminVisitors)
	admin.GET("/export/stats", func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", "client", s.hashIP(c))
		s.adminStats(c)
	})
	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.CleanupVisitors(c.Request.Context())
		if err != nil {
			s.logger.ErrorContext(c.Request.Context(), "privacy cleanup", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}

func (s *Server) hashIP(c *gin.Context) string {
	return store.HashIP(c.ClientIP(), s.hashingSalt)
}

func (s *Server) adminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn("failed admin login attempt", "client", s.hashIP(c))
		renderHTML(c, http.StatusUnauthorized, view.AdminLogin("Invalid credentials"))
		return
	}

	// 24 hours
	c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
	s.logger.Info("admin login successful", "client", s.hashIP(c))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "loading admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// queryInt reads a non-negative integer query parameter, clamped to upper.
func queryInt(c *gin.Context, name string, def, upper int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 0 {
		return def
	}
	return min(n, upper)
}

func (s *Server) adminSubmissions(c *gin.Context) {
	subs, err := s.store.ListSubmissions(c.Request.Context(), store.SubmissionListOptions{
		Form:   c.Query("form"),
		Status: c.Query("status"),
		Limit:  queryInt(c, "limit", 50, 500),
		Offset: queryInt(c, "offset", 0, 1<<20),
	})
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "listing submissions", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (s *Server) adminSubscribers(c *gin.Context) {
	subs, err := s.store.ListSubscribers(c.Request.Context(), queryInt(c, "limit", 100, 1000), queryInt(c, "offset", 0, 1<<20))
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "listing subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load subscribers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs})
}

func (s *Server) adminVisitors(c *gin.Context) {
	visitors, err := s.store.RecentVisitors(c.Request.Context(), queryInt(c, "limit", 200, 1000))
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "listing visitors", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load visitors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitors": visitors})
}

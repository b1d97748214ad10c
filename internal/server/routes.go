package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zubinqayam/zq-portfolio/internal/content"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.Static("/static", "./static")
	r.Static("/assets", "./assets")

	r.GET("/", s.page(content.Extended))
	r.GET("/minimal", s.page(content.Minimal))
	r.GET("/privacy", s.privacy)
	r.GET("/resume", s.resume)
	r.GET("/healthz", s.healthz)

	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)
	r.POST("/validate/:form/:field", s.validateField)

	api := r.Group("/api")
	api.Use(s.corsMiddleware())
	// preflight requests are answered by the CORS middleware
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.POST("/contact", s.apiContact)
	api.POST("/newsletter", s.apiNewsletter)
	api.POST("/events", s.apiEvents)

	s.registerAdminRoutes(r)
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	g "maragu.dev/gomponents"

	"github.com/zubinqayam/zq-portfolio/internal/analytics"
	"github.com/zubinqayam/zq-portfolio/internal/content"
	"github.com/zubinqayam/zq-portfolio/internal/form"
	"github.com/zubinqayam/zq-portfolio/internal/view"
)

func renderHTML(c *gin.Context, status int, n g.Node) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := n.Render(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) page(v content.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := view.PageState{
			Contact: view.FormState{Token: uuid.NewString()},
			Year:    s.now().Year(),
		}
		if v == content.Extended {
			state.Newsletter = view.FormState{Token: uuid.NewString()}
		}
		renderHTML(c, http.StatusOK, view.Page(v, s.profiles[v], state))
	}
}

func (s *Server) privacy(c *gin.Context) {
	renderHTML(c, http.StatusOK, view.PrivacyPage(s.profiles[content.Extended]))
}

// contactForm returns a fresh contact form fragment with a new instance token.
func (s *Server) contactForm(c *gin.Context) {
	renderHTML(c, http.StatusOK, view.ContactForm(view.FormState{Token: uuid.NewString()}))
}

// controllerFor returns the registered controller for key, or a throwaway
// one when the request carries no key.
func controllerFor(reg *form.Registry, key string) *form.Controller {
	if key == "" {
		return reg.Detached()
	}
	return reg.Get(key)
}

func postedFields(c *gin.Context, schema form.Schema) form.Fields {
	f := form.Fields{}
	for _, name := range schema.Names() {
		f[name] = c.PostForm(name)
	}
	return f
}

// submitContact handles the HTMX form post and answers with the next state
// of the form fragment.
func (s *Server) submitContact(c *gin.Context) {
	state, out := s.submitFragment(c, s.contacts, c.PostForm(view.TokenField), form.ContactSchema)
	if out.Kind == form.OutcomeSucceeded && out.Ack.URI != "" {
		c.Header("HX-Redirect", out.Ack.URI)
	}
	renderHTML(c, http.StatusOK, view.ContactForm(state))
}

// submitFragment runs the controller for token and maps the outcome onto a
// form fragment state. A succeeded or token-less form gets a new instance token.
func (s *Server) submitFragment(c *gin.Context, reg *form.Registry, token string, schema form.Schema) (view.FormState, form.Outcome) {
	ctrl := controllerFor(reg, token)
	out, err := ctrl.SubmitFields(c.Request.Context(), postedFields(c, schema))

	if token == "" {
		token = uuid.NewString()
	}
	state := view.FormState{Token: token, Toast: out.Toast}
	switch {
	case errors.Is(err, form.ErrInFlight):
		state.Fields = ctrl.Fields()
		state.Busy = true
	case err != nil:
		s.logger.ErrorContext(c.Request.Context(), "form submit", "form", schema.Form, "error", err)
		state.Fields = ctrl.Fields()
		msgs := form.ContactMessages
		if schema.Form == form.NewsletterSchema.Form {
			msgs = form.NewsletterMessages
		}
		state.Toast = &form.Toast{Kind: form.ToastError, Message: msgs.Failure, TTL: form.ToastTTL}
	case out.Kind == form.OutcomeRejected:
		state.Fields = ctrl.Fields()
		state.Errors = out.Reasons
	case out.Kind == form.OutcomeFailed:
		state.Fields = ctrl.Fields()
	case out.Kind == form.OutcomeSucceeded:
		reg.Release(token)
		state.Token = uuid.NewString()
	}
	return state, out
}

// validateField is the on-blur check for one input.
func (s *Server) validateField(c *gin.Context) {
	var schema form.Schema
	switch c.Param("form") {
	case form.ContactSchema.Form:
		schema = form.ContactSchema
	case form.NewsletterSchema.Form:
		schema = form.NewsletterSchema
	default:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown form"})
		return
	}
	name := c.Param("field")
	if _, ok := schema.Lookup(name); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown field"})
		return
	}
	res := form.ValidateField(schema, form.Fields{name: c.PostForm(name)}, name)
	renderHTML(c, http.StatusOK, view.FieldError(view.InputID(schema, name), res.Reason))
}

// resume serves the resume PDF and records a download event.
func (s *Server) resume(c *gin.Context) {
	if _, err := s.tracker.Track(c.Request.Context(), analytics.Event{
		Name:  analytics.EventDownload,
		Label: "resume",
		Path:  c.Request.URL.Path,
	}); err != nil {
		s.logger.WarnContext(c.Request.Context(), "tracking resume download", "error", err)
	}

	if s.cfg.ResumePath != "" {
		c.FileAttachment(s.cfg.ResumePath, content.ResumeFileName)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+content.ResumeFileName+`"`)
	c.Data(http.StatusOK, "application/pdf", content.PlaceholderResume())
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

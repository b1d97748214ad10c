package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zubinqayam/zq-portfolio/internal/analytics"
	"github.com/zubinqayam/zq-portfolio/internal/form"
	"github.com/zubinqayam/zq-portfolio/internal/store"
	"github.com/zubinqayam/zq-portfolio/internal/view"
)

const idempotencyHeader = "Idempotency-Key"

// submissionResponse maps a controller outcome onto a status code and body.
func submissionResponse(out form.Outcome, err error) (int, any) {
	switch {
	case errors.Is(err, form.ErrInFlight):
		return http.StatusConflict, ErrorResponse{Error: "a submission for this form is already in progress"}
	case err != nil:
		return http.StatusInternalServerError, ErrorResponse{Error: "submission could not be processed"}
	}

	resp := SubmissionResponse{Token: out.Attempt.Token, Status: out.Attempt.Status}
	if out.Toast != nil {
		resp.Message = out.Toast.Message
	}
	switch out.Kind {
	case form.OutcomeRejected:
		resp.Errors = out.Reasons
		return http.StatusUnprocessableEntity, resp
	case form.OutcomeFailed:
		resp.Message = out.Attempt.ErrorReason
		return http.StatusBadGateway, resp
	default:
		resp.Mailto = out.Ack.URI
		return http.StatusCreated, resp
	}
}

// apiContact accepts a JSON contact submission. A repeated Idempotency-Key
// replays the stored response of the first successful request.
func (s *Server) apiContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	ctx := c.Request.Context()

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if key != "" {
		rec, claimed, err := s.store.ClaimKey(ctx, key, form.ContactSchema.Form, s.now(), store.DefaultIdempotencyTTL)
		if err != nil {
			s.logger.ErrorContext(ctx, "claiming idempotency key", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "submission could not be processed"})
			return
		}
		if !claimed {
			if rec.Pending() {
				c.JSON(http.StatusConflict, ErrorResponse{Error: "a request with this Idempotency-Key is still in progress"})
				return
			}
			c.Header("Idempotent-Replayed", "true")
			c.Data(rec.Status, "application/json; charset=utf-8", []byte(rec.Response))
			return
		}
	}

	instance := req.FormToken
	if instance == "" {
		instance = key
	}

	out, err := controllerFor(s.contacts, instance).SubmitFields(ctx, req.Fields())
	if out.Kind == form.OutcomeSucceeded && instance != "" {
		s.contacts.Release(instance)
	}
	status, body := submissionResponse(out, err)
	if key != "" {
		s.finishKey(context.WithoutCancel(ctx), key, status, body)
	}
	c.JSON(status, body)
}

// finishKey stores successful responses for replay and frees the key otherwise,
// so a corrected or retried request can run.
func (s *Server) finishKey(ctx context.Context, key string, status int, body any) {
	if status < 200 || status >= 300 {
		if err := s.store.ReleaseKey(ctx, key); err != nil {
			s.logger.ErrorContext(ctx, "releasing idempotency key", "error", err)
		}
		return
	}
	data, err := json.Marshal(body)
	if err == nil {
		err = s.store.CompleteKey(ctx, key, status, string(data))
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "completing idempotency key", "error", err)
	}
}

// apiNewsletter subscribes an email address. HTMX posts get the form
// fragment back; everything else gets JSON.
func (s *Server) apiNewsletter(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		state, _ := s.submitFragment(c, s.newsletters, c.PostForm(view.TokenField), form.NewsletterSchema)
		renderHTML(c, http.StatusOK, view.NewsletterForm(state))
		return
	}

	var req NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	out, err := controllerFor(s.newsletters, req.FormToken).SubmitFields(c.Request.Context(), form.Fields{form.FieldEmail: req.Email})
	if out.Kind == form.OutcomeSucceeded && req.FormToken != "" {
		s.newsletters.Release(req.FormToken)
	}
	c.JSON(submissionResponse(out, err))
}

// apiEvents records one analytics event.
func (s *Server) apiEvents(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	e, err := s.tracker.Track(c.Request.Context(), analytics.Event{
		Name:     req.Name,
		Category: req.Category,
		Label:    req.Label,
		Value:    req.Value,
		Path:     req.Path,
	})
	switch {
	case errors.Is(err, analytics.ErrInvalidEvent):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case err != nil:
		s.logger.ErrorContext(c.Request.Context(), "tracking event", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "event could not be recorded"})
	default:
		c.JSON(http.StatusAccepted, e)
	}
}

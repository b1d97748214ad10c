package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubinqayam/zq-portfolio/internal/analytics"
	"github.com/zubinqayam/zq-portfolio/internal/config"
	"github.com/zubinqayam/zq-portfolio/internal/form"
	"github.com/zubinqayam/zq-portfolio/internal/store"
)

func setupServer(t *testing.T, mutate func(*config.Config), opts ...Option) (*Server, *gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	cfg.Admin.Password = "secret"
	cfg.CORS.AllowedOrigins = []string{"https://zq.example"}
	if mutate != nil {
		mutate(cfg)
	}

	s, err := New(cfg, st, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Wait)
	return s, s.Handler(), st
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func validContact() ContactRequest {
	return ContactRequest{Name: "Jo", Email: "a@b.com", Message: "hi"}
}

func TestPages(t *testing.T) {
	s, r, st := setupServer(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="newsletter-form"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/minimal", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `id="newsletter-form"`)
	assert.Contains(t, w.Body.String(), `id="contact-form"`)

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	serve(r, dnt)

	s.Wait()
	visitors, err := st.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 2, "the DNT request is not tracked")
	assert.Len(t, visitors[0].HashedIP, 16)
}

func TestContactForm_Fragment(t *testing.T) {
	_, r, _ := setupServer(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/contact-form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), `<form id="contact-form"`))
	assert.Contains(t, w.Body.String(), `name="form_token"`)
}

func TestSubmitContact_Rejected(t *testing.T) {
	_, r, st := setupServer(t, nil)

	w := serve(r, postForm("/contact", url.Values{"form_token": {"t1"}, "name": {"Jo"}, "email": {"bad"}}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please enter a valid email address")
	assert.Contains(t, body, "Message is required")
	assert.Contains(t, body, "Please correct the errors below.")
	assert.Contains(t, body, `value="Jo"`, "fields are kept")
	assert.Empty(t, w.Header().Get("HX-Redirect"))

	subs, err := st.ListSubmissions(context.Background(), store.SubmissionListOptions{})
	require.NoError(t, err)
	assert.Empty(t, subs, "rejected attempts are not persisted")
}

func TestSubmitWithoutToken_LeavesNoFormInstance(t *testing.T) {
	s, r, _ := setupServer(t, nil)

	for range 3 {
		w := serve(r, postForm("/contact", url.Values{"name": {"Jo"}, "email": {"bad"}}))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="form_token" value="`)
		assert.NotContains(t, w.Body.String(), `name="form_token" value=""`)

		w = serve(r, postJSON(t, "/api/contact", ContactRequest{Name: "Jo"}))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = serve(r, postJSON(t, "/api/newsletter", NewsletterRequest{Email: "nope"}))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}

	assert.Zero(t, s.contacts.Len())
	assert.Zero(t, s.newsletters.Len())
}

func TestSubmitContact_MailtoRedirect(t *testing.T) {
	_, r, st := setupServer(t, nil)

	w := serve(r, postForm("/contact", url.Values{
		"form_token": {"t1"}, "name": {"Jo"}, "email": {"a@b.com"}, "message": {"hi"},
	}))
	require.Equal(t, http.StatusOK, w.Code)

	redirect := w.Header().Get("HX-Redirect")
	assert.True(t, strings.HasPrefix(redirect, "mailto:zubin.qayam@outlook.com?subject="), redirect)
	assert.Contains(t, w.Body.String(), "Your email client should now open")
	assert.NotContains(t, w.Body.String(), `value="t1"`, "a succeeded form gets a new token")

	subs, err := st.ListSubmissions(context.Background(), store.SubmissionListOptions{Form: "contact"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "succeeded", subs[0].Status)
	assert.Equal(t, "Jo", subs[0].Fields["name"])
}

func TestAPIContact(t *testing.T) {
	t.Run("created with mailto", func(t *testing.T) {
		_, r, _ := setupServer(t, nil)
		w := serve(r, postJSON(t, "/api/contact", validContact()))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp SubmissionResponse
		decode(t, w, &resp)
		assert.Equal(t, form.StatusSucceeded, resp.Status)
		assert.True(t, strings.HasPrefix(resp.Mailto, "mailto:zubin.qayam@outlook.com?subject="))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("rejected", func(t *testing.T) {
		_, r, _ := setupServer(t, nil)
		w := serve(r, postJSON(t, "/api/contact", ContactRequest{Email: "bad"}))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp SubmissionResponse
		decode(t, w, &resp)
		assert.Equal(t, map[string]string{
			"name":    "Name is required",
			"email":   "Please enter a valid email address",
			"message": "Message is required",
		}, resp.Errors)
	})

	t.Run("failed delivery", func(t *testing.T) {
		failing := form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
			return form.Ack{}, form.ErrTransient
		})
		_, r, st := setupServer(t, nil, WithContactDelivery(failing, form.ContactMessages))

		w := serve(r, postJSON(t, "/api/contact", validContact()))
		require.Equal(t, http.StatusBadGateway, w.Code)

		var resp SubmissionResponse
		decode(t, w, &resp)
		assert.Equal(t, form.StatusFailed, resp.Status)
		assert.Equal(t, "Failed to send message. Please try again.", resp.Message)

		subs, err := st.ListSubmissions(context.Background(), store.SubmissionListOptions{Status: "failed"})
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("bad body", func(t *testing.T) {
		_, r, _ := setupServer(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPIContact_InFlightIsRefused(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	blocking := form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
		calls.Add(1)
		started <- struct{}{}
		<-release
		return form.Ack{Ref: sub.Token}, nil
	})
	_, r, _ := setupServer(t, nil, WithContactDelivery(blocking, form.ContactMessages))

	body := validContact()
	body.FormToken = "instance-1"

	firstReq := postJSON(t, "/api/contact", body)
	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- serve(r, firstReq) }()
	<-started

	second := serve(r, postJSON(t, "/api/contact", body))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	w := <-first
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAPIContact_IdempotencyKey(t *testing.T) {
	var calls atomic.Int32
	counting := form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
		calls.Add(1)
		return (&form.MailtoDelivery{}).Deliver(ctx, sub)
	})
	_, r, _ := setupServer(t, nil, WithContactDelivery(counting, form.MailtoMessages))

	req := func() *http.Request {
		req := postJSON(t, "/api/contact", validContact())
		req.Header.Set("Idempotency-Key", "key-1")
		return req
	}

	w1 := serve(r, req())
	require.Equal(t, http.StatusCreated, w1.Code)
	w2 := serve(r, req())
	require.Equal(t, http.StatusCreated, w2.Code)

	assert.Equal(t, "true", w2.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, w1.Body.String(), w2.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestAPIContact_RejectedKeyIsReleased(t *testing.T) {
	_, r, _ := setupServer(t, nil)

	bad := postJSON(t, "/api/contact", ContactRequest{Name: "Jo"})
	bad.Header.Set("Idempotency-Key", "key-2")
	require.Equal(t, http.StatusUnprocessableEntity, serve(r, bad).Code)

	good := postJSON(t, "/api/contact", validContact())
	good.Header.Set("Idempotency-Key", "key-2")
	w := serve(r, good)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("Idempotent-Replayed"))
}

func TestAPINewsletter(t *testing.T) {
	instant := form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
		return form.Ack{Ref: sub.Token}, nil
	})
	_, r, st := setupServer(t, nil, WithNewsletterBackend(instant))

	w := serve(r, postJSON(t, "/api/newsletter", NewsletterRequest{Email: "Reader@Example.com"}))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp SubmissionResponse
	decode(t, w, &resp)
	assert.Equal(t, "Successfully subscribed to newsletter!", resp.Message)

	w = serve(r, postJSON(t, "/api/newsletter", NewsletterRequest{Email: "reader@example.com"}))
	assert.Equal(t, http.StatusCreated, w.Code, "subscribing twice is not an error")

	subs, err := st.ListSubscribers(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)

	w = serve(r, postJSON(t, "/api/newsletter", NewsletterRequest{Email: "nope"}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "Please enter a valid email address", resp.Errors["email"])
}

func TestAPINewsletter_HTMXFragment(t *testing.T) {
	instant := form.DeliveryFunc(func(ctx context.Context, sub form.Submission) (form.Ack, error) {
		return form.Ack{Ref: sub.Token}, nil
	})
	_, r, _ := setupServer(t, nil, WithNewsletterBackend(instant))

	req := postForm("/api/newsletter", url.Values{"form_token": {"n1"}, "email": {"reader@example.com"}})
	req.Header.Set("HX-Request", "true")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), `<form id="newsletter-form"`))
	assert.Contains(t, w.Body.String(), "Successfully subscribed to newsletter!")
}

func TestAPIEvents(t *testing.T) {
	_, r, st := setupServer(t, nil)

	w := serve(r, postJSON(t, "/api/events", EventRequest{Name: "scroll", Label: "25%", Path: "/"}))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(r, postJSON(t, "/api/events", EventRequest{Name: "scroll", Label: "30%"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, postJSON(t, "/api/events", EventRequest{Name: "scroll", Value: 10}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, postJSON(t, "/api/events", EventRequest{Name: "scroll", Value: 30, Path: "/"}))
	require.Equal(t, http.StatusAccepted, w.Code)
	var e analytics.Event
	decode(t, w, &e)
	assert.Equal(t, "25%", e.Label)

	counts, err := st.CountEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "25%", counts[0].Label)
	assert.EqualValues(t, 2, counts[0].Count)
}

func TestResume(t *testing.T) {
	_, r, st := setupServer(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/resume", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Zubin_Qayam_Resume.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	counts, err := st.CountEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "download", counts[0].Name)
}

func TestValidateField(t *testing.T) {
	_, r, _ := setupServer(t, nil)

	w := serve(r, postForm("/validate/contact/email", url.Values{"email": {"bad"}}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<p id="contact-form-email-error" class="form-error text-sm text-red-600" role="alert">Please enter a valid email address</p>`, w.Body.String())

	w = serve(r, postForm("/validate/newsletter/email", url.Values{"email": {"a@b.com"}}))
	assert.NotContains(t, w.Body.String(), "role=")

	w = serve(r, postForm("/validate/unknown/email", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	_, r, _ := setupServer(t, nil)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	_, r, _ := setupServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://zq.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://zq.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

package server

import "github.com/zubinqayam/zq-portfolio/internal/form"

type ErrorResponse struct {
	Error string `json:"error"`
}

// SubmissionResponse is the JSON answer to a form post.
type SubmissionResponse struct {
	Token   string            `json:"token,omitempty"`
	Status  form.Status       `json:"status"`
	Message string            `json:"message,omitempty"`
	Mailto  string            `json:"mailto,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ContactRequest is the JSON body of POST /api/contact.
type ContactRequest struct {
	FormToken string `json:"form_token"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Message   string `json:"message"`
}

func (r ContactRequest) Fields() form.Fields {
	return form.Fields{
		form.FieldName:    r.Name,
		form.FieldEmail:   r.Email,
		form.FieldCompany: r.Company,
		form.FieldMessage: r.Message,
	}
}

// NewsletterRequest is the body of POST /api/newsletter, JSON or form encoded.
type NewsletterRequest struct {
	FormToken string `json:"form_token" form:"form_token"`
	Email     string `json:"email" form:"email"`
}

// EventRequest is the body of POST /api/events.
type EventRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Label    string `json:"label"`
	Value    int64  `json:"value"`
	Path     string `json:"path"`
}

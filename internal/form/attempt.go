package form

import "time"

// Attempt is one user-initiated try to send a form, tracked from validation
// through success or failure. A fresh Attempt is created on every submit.
type Attempt struct {
	Token       string    `json:"token"`
	Form        string    `json:"form"`
	Fields      Fields    `json:"fields"`
	Validity    Validity  `json:"validity,omitempty"`
	Status      Status    `json:"status"`
	ErrorReason string    `json:"error_reason,omitempty"`
	Ack         Ack       `json:"ack"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
}

func (a *Attempt) clone() Attempt {
	out := *a
	out.Fields = a.Fields.Clone()
	if a.Validity != nil {
		out.Validity = append(Validity(nil), a.Validity...)
	}
	return out
}

// OutcomeKind is how a submit call ended.
type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeBusy      OutcomeKind = "busy"
)

// Outcome is the result of Controller.Submit.
type Outcome struct {
	Kind    OutcomeKind
	Attempt Attempt
	// Reasons is set for rejected outcomes: field name -> reason.
	Reasons map[string]string
	Ack     Ack
	// Toast is the notification shown for this outcome; nil for busy outcomes.
	Toast   *Toast
	// Err is the delivery error behind a failed outcome.
	Err     error
}

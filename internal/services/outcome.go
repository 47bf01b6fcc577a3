package services

type OutcomeStatus string

const (
	OutcomePasswordChanged   OutcomeStatus = "PASSWORD_CHANGED"
	OutcomeIncorrectPassword OutcomeStatus = "INCORRECT_PASSWORD"
	OutcomeMismatch          OutcomeStatus = "PASSWORD_MISMATCH"
	OutcomeEmailSent         OutcomeStatus = "EMAIL_SENT"
	OutcomePasswordUpdated   OutcomeStatus = "PASSWORD_UPDATED"
)

// Outcome is the result of a password operation. Business-rule rejections are
// outcomes, not errors.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Message string        `json:"message"`
}

func (o Outcome) Declined() bool {
	return o.Status == OutcomeIncorrectPassword || o.Status == OutcomeMismatch
}

var (
	outcomePasswordChanged   = Outcome{Status: OutcomePasswordChanged, Message: "password successfully changed"}
	outcomeIncorrectPassword = Outcome{Status: OutcomeIncorrectPassword, Message: "Incorrect current password"}
	outcomeMismatch          = Outcome{Status: OutcomeMismatch, Message: "password mismatch"}
	outcomeEmailSent         = Outcome{Status: OutcomeEmailSent, Message: "email sent"}
	outcomePasswordUpdated   = Outcome{Status: OutcomePasswordUpdated, Message: "updated"}
)

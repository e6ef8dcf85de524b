package orchestrators

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	emailAdapter "fithub/internal/adapters/email"
	accountStore "fithub/internal/adapters/storage/account"
	"fithub/internal/domain/account"
)

// AccountStoreForPasswordHelp defines the store interface needed by RequestPasswordHelp.
type AccountStoreForPasswordHelp interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	RecordHelpRequest(ctx context.Context, req accountStore.HelpRequest) error
}

// PasswordHelpInput carries input for the orchestrator.
type PasswordHelpInput struct {
	Email string
}

// PasswordHelpDeps holds dependencies for RequestPasswordHelp.
type PasswordHelpDeps struct {
	AccountStore AccountStoreForPasswordHelp
	Sender       emailAdapter.Sender
	BaseURL      string
	ReplyTo      string
	GenerateID   func() string
	Now          func() time.Time
}

const passwordHelpSubject = "FitHub password help"

var passwordHelpTemplate = template.Must(template.New("password_help").Parse(`<p>Hi {{.FirstName}},</p>
<p>We received a request to help you get back into your FitHub account.
Reply to this message or ask at the front desk and we will reset your password for you.</p>
<p>You can sign in again at <a href="{{.LoginURL}}">{{.LoginURL}}</a>.</p>
<p>If you did not ask for this, you can ignore this email.</p>`))

// ExecuteRequestPasswordHelp records the request and emails the account holder.
// The outcome is identical whether or not the address has an account.
// PRE: input.Email passes ValidateEmailField
// POST: Request recorded; an email is sent only when the account exists
// INVARIANT: Delivery failures are logged, never returned
func ExecuteRequestPasswordHelp(ctx context.Context, input PasswordHelpInput, deps PasswordHelpDeps) error {
	if msg := ValidateEmailField(input.Email); msg != "" {
		return FieldErrors{"email": msg}
	}
	email := account.NormalizeEmail(input.Email)

	req := accountStore.HelpRequest{
		ID:          deps.GenerateID(),
		Email:       email,
		RequestedAt: deps.Now(),
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		req.AccountID = acct.ID
	}
	if err := deps.AccountStore.RecordHelpRequest(ctx, req); err != nil {
		return err
	}
	if req.AccountID == "" {
		slog.InfoContext(ctx, "auth_event", "event", "password_help_unknown_email", "email", email)
		return nil
	}

	var body bytes.Buffer
	err = passwordHelpTemplate.Execute(&body, struct {
		FirstName string
		LoginURL  string
	}{acct.FirstName, deps.BaseURL + "/auth/login"})
	if err != nil {
		return err
	}

	if _, err := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{acct.Email},
		Subject: passwordHelpSubject,
		HTML:    body.String(),
		ReplyTo: deps.ReplyTo,
	}); err != nil {
		slog.ErrorContext(ctx, "password_help_send_failed", "email", email, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "auth_event", "event", "password_help_sent", "email", email)
	return nil
}

package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

const (
	verificationTemplate = "verification.html"
	resetTemplate        = "reset.html"
	otpTemplate          = "otp.html"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to user.Email, subject, htmlBody string) error
}

// Config names the product in subjects and bodies. Templates, when set,
// must contain verification.html, reset.html and otp.html.
type Config struct {
	AppName   string
	Templates fs.FS
}

// Mailer renders account emails and hands them to a Sender.
type Mailer struct {
	sender    Sender
	app       string
	templates *template.Template
}

type view struct {
	App   string
	Name  string
	Token string
	Otp   string
}

// NewMailer parses the templates once.
func NewMailer(sender Sender, cfg Config) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail: sender required")
	}
	app := cfg.AppName
	if app == "" {
		app = "goIdentity"
	}

	var (
		tmpl *template.Template
		err  error
	)
	if cfg.Templates != nil {
		tmpl, err = template.ParseFS(cfg.Templates, "*.html")
	} else {
		tmpl, err = template.ParseFS(defaultTemplates, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}
	for _, name := range []string{verificationTemplate, resetTemplate, otpTemplate} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("mail: missing template %s", name)
		}
	}

	return &Mailer{sender: sender, app: app, templates: tmpl}, nil
}

func (m *Mailer) SendCredentialsVerificationEmail(ctx context.Context, to user.Email, tok token.Token) error {
	return m.send(ctx, to, "Verification email", verificationTemplate, view{Token: tok.String()})
}

func (m *Mailer) SendCredentialsResetEmail(ctx context.Context, to user.Email, tok token.Token) error {
	return m.send(ctx, to, "Password reset", resetTemplate, view{Token: tok.String()})
}

func (m *Mailer) SendOTPEmail(ctx context.Context, to user.Email, otp mfa.Otp) error {
	return m.send(ctx, to, "Verification code", otpTemplate, view{Otp: string(otp)})
}

func (m *Mailer) send(ctx context.Context, to user.Email, subject, name string, v view) error {
	v.App = m.app
	v.Name = to.Username()

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, name, v); err != nil {
		return fmt.Errorf("mail: render %s: %w", name, err)
	}
	return m.sender.Send(ctx, to, fmt.Sprintf("[%s] %s", m.app, subject), body.String())
}

package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"blockgen"
	"blockgen/internal/api/models"
	"blockgen/internal/gen"

	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

type ArtifactMail struct {
	To      []string
	Subject string
}

type MailService struct {
	config blockgen.AppConfig
	logger zerolog.Logger
}

func NewMailService() *MailService {
	return &MailService{
		config: blockgen.GetConfig(),
		logger: blockgen.Logger,
	}
}

// IsConfigured returns true when the app-level SMTP settings are filled in
func (slf *MailService) IsConfigured() bool {
	cfg := slf.config.SmtpConfig
	return cfg.Host != "" && cfg.Username != ""
}

// BuildArtifactMessage renders the mail carrying an artifact: a summary of
// its diagnostics in the body and the code as an attachment.
func (slf *MailService) BuildArtifactMessage(project models.Project, artifact models.Artifact, mail ArtifactMail) (*gomail.Msg, error) {
	if len(mail.To) == 0 {
		return nil, fmt.Errorf("no recipients specified")
	}

	from := slf.config.SmtpConfig.From
	if from == "" {
		from = slf.config.SmtpConfig.Username
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("failed to set from: %w", err)
	}
	if err := m.To(mail.To...); err != nil {
		return nil, fmt.Errorf("failed to set to: %w", err)
	}

	subject := mail.Subject
	if subject == "" {
		subject = fmt.Sprintf("%s: %s artifact %s", project.Name, artifact.Backend, artifact.PassID)
	}
	m.Subject(subject)
	m.SetBodyString(gomail.TypeTextPlain, artifactSummary(project, artifact))

	if err := m.AttachReader(attachmentName(artifact), strings.NewReader(artifact.Code)); err != nil {
		return nil, fmt.Errorf("failed to attach artifact: %w", err)
	}
	return m, nil
}

// SendArtifact mails an artifact through the app-level SMTP server
func (slf *MailService) SendArtifact(ctx context.Context, project models.Project, artifact models.Artifact, mail ArtifactMail) error {
	if !slf.IsConfigured() {
		return ErrMailNotConfigured
	}

	m, err := slf.BuildArtifactMessage(project, artifact, mail)
	if err != nil {
		return err
	}

	cfg := slf.config.SmtpConfig
	client, err := newSMTPClient(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.UseTLS)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slf.logger.Info().Strs("to", mail.To).Uint("artifactId", artifact.ID).Msg("Artifact mailed")
	return nil
}

// TestSMTPConnection tests an SMTP connection
func (slf *MailService) TestSMTPConnection(ctx context.Context, host string, port int, username, password string, useTLS bool) error {
	client, err := newSMTPClient(host, port, username, password, useTLS)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("SMTP connection failed: %w", err)
	}
	_ = client.Close()

	return nil
}

// TestIMAPConnection tests an IMAP connection
func (slf *MailService) TestIMAPConnection(host string, port int, username, password string, useTLS bool) error {
	addr := fmt.Sprintf("%s:%d", host, port)

	var client *imapclient.Client
	var err error
	if useTLS {
		client, err = imapclient.DialTLS(addr, &imapclient.Options{
			TLSConfig: &tls.Config{ServerName: host},
		})
	} else {
		client, err = imapclient.DialInsecure(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("IMAP connection failed: %w", err)
	}
	defer client.Close()

	if err := client.Login(username, password).Wait(); err != nil {
		return fmt.Errorf("IMAP login failed: %w", err)
	}

	return nil
}

func newSMTPClient(host string, port int, username, password string, useTLS bool) (*gomail.Client, error) {
	tlsPolicy := gomail.TLSOpportunistic
	if useTLS {
		tlsPolicy = gomail.TLSMandatory
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(tlsPolicy),
	}
	if password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

func attachmentName(artifact models.Artifact) string {
	if artifact.Backend == gen.BackendGo {
		return "chaincode.go"
	}
	return artifact.Backend + ".txt"
}

func artifactSummary(project models.Project, artifact models.Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", project.Name)
	fmt.Fprintf(&b, "Backend: %s\n", artifact.Backend)
	fmt.Fprintf(&b, "Pass: %s\n", artifact.PassID)
	if len(artifact.Diagnostics) == 0 {
		b.WriteString("\nNo diagnostics.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\nDiagnostics (%d blocking):\n", artifact.Diagnostics.Blocking())
	for _, d := range artifact.Diagnostics {
		b.WriteString("  " + d.String() + "\n")
	}
	return b.String()
}

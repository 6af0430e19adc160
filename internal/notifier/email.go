package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure EmailNotifier implements model.Notifier.
var _ model.Notifier = (*EmailNotifier)(nil)

// ErrMissingCredentials is returned when a digest must be sent but the mail
// account user or password is not configured.
var ErrMissingCredentials = errors.New("mail credentials not configured (set MAIL_USER and MAIL_PASS)")

const (
	dialTimeout = 30 * time.Second
	// defaultSessionTimeout bounds the whole SMTP exchange when ctx has no deadline.
	defaultSessionTimeout = 2 * time.Minute
)

// EmailConfig holds the relay and account used to send digests.
type EmailConfig struct {
	Host     string // SMTP relay speaking implicit TLS, e.g. smtp.gmail.com
	Port     int    // usually 465
	User     string // account login, also the From address
	Password string
	To       string // recipient; defaults to User when empty
	SiteName string // used in the subject line

	// TLSConfig overrides the client TLS settings, e.g. to trust a private CA.
	// ServerName defaults to Host.
	TLSConfig *tls.Config
}

// Recipient returns the address digests are sent to.
func (c EmailConfig) Recipient() string {
	if c.To != "" {
		return c.To
	}
	return c.User
}

// sendFunc delivers a fully formed RFC 5322 message.
type sendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// EmailNotifier sends one plain-text digest per Notify call over SMTP with TLS.
type EmailNotifier struct {
	cfg            EmailConfig
	send           sendFunc
	now            func() time.Time
	sessionTimeout time.Duration
	logger         *slog.Logger
}

// NewEmailNotifier returns a notifier that mails digests through cfg's relay.
// Credentials are checked when a digest is sent, not here, so runs that find
// nothing new never need them.
func NewEmailNotifier(cfg EmailConfig, logger *slog.Logger) *EmailNotifier {
	n := &EmailNotifier{
		cfg:            cfg,
		now:            time.Now,
		sessionTimeout: defaultSessionTimeout,
		logger:         logger,
	}
	n.send = n.sendSMTP
	return n
}

// Notify sends a single digest for all postings. An empty batch sends nothing.
func (n *EmailNotifier) Notify(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	if n.cfg.User == "" || n.cfg.Password == "" {
		return ErrMissingCredentials
	}

	to := n.cfg.Recipient()
	msg, err := n.buildMessage(to, postings)
	if err != nil {
		return err
	}

	if err := n.send(ctx, n.cfg.User, []string{to}, msg); err != nil {
		return fmt.Errorf("sending digest to %s: %w", to, err)
	}

	n.logger.Info("digest sent", "to", to, "postings", len(postings))
	return nil
}

func (n *EmailNotifier) buildMessage(to string, postings []model.Posting) ([]byte, error) {
	var h mail.Header
	h.SetDate(n.now())
	h.SetAddressList("From", []*mail.Address{{Address: n.cfg.User}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(DigestSubject(n.cfg.SiteName, len(postings)))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("writing digest headers: %w", err)
	}
	if _, err := io.WriteString(w, DigestBody(postings)); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing digest body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finishing digest: %w", err)
	}
	return buf.Bytes(), nil
}

func (n *EmailNotifier) sendSMTP(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: dialTimeout},
		Config:    n.tlsConfig(),
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(n.sessionTimeout)
	}
	conn.SetDeadline(deadline)

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", n.cfg.User, n.cfg.Password)); err != nil {
		return fmt.Errorf("smtp auth as %s: %w", n.cfg.User, err)
	}
	if err := c.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return c.Quit()
}

func (n *EmailNotifier) tlsConfig() *tls.Config {
	var cfg *tls.Config
	if n.cfg.TLSConfig != nil {
		cfg = n.cfg.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = n.cfg.Host
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	return cfg
}

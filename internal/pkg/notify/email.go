package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultEmailSubject = "Yosemite Campground Availabilites Found"

	// SMTPS port, TLS from the first byte.
	implicitTLSPort = 465
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Subject  string

	// ImplicitTLS dials TLS directly instead of upgrading with STARTTLS.
	// Always on for port 465.
	ImplicitTLS bool
}

type EmailNotifier struct {
	Config EmailConfig
	// TLSConfig overrides the default of verifying Config.Host.
	TLSConfig *tls.Config
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	if cfg.Subject == "" {
		cfg.Subject = DefaultEmailSubject
	}

	if cfg.Port == implicitTLSPort {
		cfg.ImplicitTLS = true
	}

	return &EmailNotifier{
		Config: cfg,
	}
}

func (n *EmailNotifier) Name() string {
	return "email"
}

// Notify sends message to every recipient. The whole SMTP conversation
// is bound by ctx.
func (n *EmailNotifier) Notify(ctx context.Context, message string) error {
	addr := net.JoinHostPort(n.Config.Host, strconv.Itoa(n.Config.Port))

	err := n.send(ctx, addr, []byte(n.buildMessage(message)))
	if err != nil {
		ctxErr := ctx.Err()
		if ctxErr == nil && errors.Is(err, os.ErrDeadlineExceeded) {
			// The conn deadline came from ctx and fired a moment before ctx did.
			ctxErr = context.DeadlineExceeded
		}

		if ctxErr != nil {
			return fmt.Errorf("%w: error sending email via %s: %w: %w", ErrDispatch, addr, ctxErr, err)
		}
		return fmt.Errorf("%w: error sending email via %s: %w", ErrDispatch, addr, err)
	}

	return nil
}

func (n *EmailNotifier) send(ctx context.Context, addr string, msg []byte) error {
	tlsConfig := n.tlsConfig()

	var (
		conn net.Conn
		err  error
	)

	if n.Config.ImplicitTLS || n.Config.Port == implicitTLSPort {
		dialer := &tls.Dialer{Config: tlsConfig}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		dialer := &net.Dialer{}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("error dialing smtp server %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("error setting smtp deadline %w", err)
		}
	}

	// Unblocks reads and writes when ctx is cancelled without a deadline.
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	client, err := smtp.NewClient(conn, n.Config.Host)
	if err != nil {
		return fmt.Errorf("error starting smtp session %w", err)
	}
	defer client.Close()

	if _, isTLS := conn.(*tls.Conn); !isTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("error starting tls %w", err)
			}
		}
	}

	if n.Config.Username != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return fmt.Errorf("smtp server %s does not support AUTH", addr)
		}

		auth := smtp.PlainAuth("", n.Config.Username, n.Config.Password, n.Config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("error authenticating %w", err)
		}
	}

	if err := client.Mail(n.Config.From); err != nil {
		return fmt.Errorf("error setting sender %w", err)
	}

	for _, to := range n.Config.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("error adding recipient %s %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("error starting message data %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("error writing message %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("error finishing message %w", err)
	}

	return client.Quit()
}

func (n *EmailNotifier) tlsConfig() *tls.Config {
	if n.TLSConfig != nil {
		return n.TLSConfig.Clone()
	}

	return &tls.Config{ServerName: n.Config.Host}
}

func (n *EmailNotifier) buildMessage(body string) string {
	var sb strings.Builder

	sb.WriteString("From: " + n.Config.From + "\r\n")
	sb.WriteString("To: " + strings.Join(n.Config.To, ", ") + "\r\n")
	sb.WriteString("Subject: " + n.Config.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return sb.String()
}

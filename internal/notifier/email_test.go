package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/amishk599/jobwatch/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMail struct {
	from string
	to   []string
	msg  []byte
}

func testConfig() EmailConfig {
	return EmailConfig{
		Host:     "smtp.example.com",
		Port:     465,
		User:     "watcher@example.com",
		Password: "app-password",
		SiteName: "NVIDIA",
	}
}

// newTestNotifier returns a notifier whose transport records messages.
func newTestNotifier(cfg EmailConfig, sendErr error) (*EmailNotifier, *[]sentMail) {
	var sent []sentMail
	n := NewEmailNotifier(cfg, discardLogger())
	n.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	n.send = func(_ context.Context, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{from: from, to: to, msg: msg})
		return sendErr
	}
	return n, &sent
}

func samplePostings() []model.Posting {
	return []model.Posting{
		{Title: "Senior GPU Architect", Posted: "Posted Today", URL: "https://example.com/job/A_JR1"},
		{Title: "Deep Learning Engineer", Posted: "Posted Today", URL: "https://example.com/job/B_JR2"},
	}
}

func readMessage(t *testing.T, raw []byte) (subject, from, to, body string) {
	t.Helper()
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	subject, err = mr.Header.Subject()
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	fromList, err := mr.Header.AddressList("From")
	if err != nil || len(fromList) != 1 {
		t.Fatalf("From = %v, %v", fromList, err)
	}
	toList, err := mr.Header.AddressList("To")
	if err != nil || len(toList) != 1 {
		t.Fatalf("To = %v, %v", toList, err)
	}
	part, err := mr.NextPart()
	if err != nil {
		t.Fatalf("body part: %v", err)
	}
	b, err := io.ReadAll(part.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return subject, fromList[0].Address, toList[0].Address, string(b)
}

func TestEmailNotifier_SendsOneDigest(t *testing.T) {
	n, sent := newTestNotifier(testConfig(), nil)

	if err := n.Notify(context.Background(), samplePostings()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(*sent))
	}

	m := (*sent)[0]
	if m.from != "watcher@example.com" {
		t.Errorf("envelope from = %q", m.from)
	}
	if len(m.to) != 1 || m.to[0] != "watcher@example.com" {
		t.Errorf("envelope to = %v, want the account itself", m.to)
	}

	subject, from, to, body := readMessage(t, m.msg)
	if subject != "NVIDIA: 2 new job(s) posted today" {
		t.Errorf("subject = %q", subject)
	}
	if from != "watcher@example.com" || to != "watcher@example.com" {
		t.Errorf("headers from=%q to=%q", from, to)
	}
	want := "Senior GPU Architect\nPosted Today\nhttps://example.com/job/A_JR1\n" +
		"\n" +
		"Deep Learning Engineer\nPosted Today\nhttps://example.com/job/B_JR2\n"
	if strings.ReplaceAll(body, "\r\n", "\n") != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestEmailNotifier_RecipientOverride(t *testing.T) {
	cfg := testConfig()
	cfg.To = "me@example.org"
	n, sent := newTestNotifier(cfg, nil)

	if err := n.Notify(context.Background(), samplePostings()[:1]); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := (*sent)[0].to; len(got) != 1 || got[0] != "me@example.org" {
		t.Errorf("envelope to = %v", got)
	}
	subject, _, to, _ := readMessage(t, (*sent)[0].msg)
	if to != "me@example.org" {
		t.Errorf("To header = %q", to)
	}
	if subject != "NVIDIA: 1 new job(s) posted today" {
		t.Errorf("subject = %q", subject)
	}
}

func TestEmailNotifier_EmptyBatchSendsNothing(t *testing.T) {
	n, sent := newTestNotifier(EmailConfig{}, nil)

	if err := n.Notify(context.Background(), nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if len(*sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(*sent))
	}
}

func TestEmailNotifier_MissingCredentials(t *testing.T) {
	for _, cfg := range []EmailConfig{
		{Host: "smtp.example.com", Port: 465, Password: "x"},
		{Host: "smtp.example.com", Port: 465, User: "a@example.com"},
	} {
		n, sent := newTestNotifier(cfg, nil)
		err := n.Notify(context.Background(), samplePostings())
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Notify with %+v = %v, want ErrMissingCredentials", cfg, err)
		}
		if len(*sent) != 0 {
			t.Error("nothing should be sent without credentials")
		}
	}
}

func TestEmailNotifier_TransportErrorPropagates(t *testing.T) {
	authErr := errors.New("535 authentication failed")
	n, _ := newTestNotifier(testConfig(), authErr)

	err := n.Notify(context.Background(), samplePostings())
	if !errors.Is(err, authErr) {
		t.Fatalf("Notify = %v, want wrapped transport error", err)
	}
}

func TestSendTestMessage(t *testing.T) {
	n, sent := newTestNotifier(testConfig(), nil)

	if err := SendTestMessage(context.Background(), n); err != nil {
		t.Fatalf("SendTestMessage: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(*sent))
	}
}

func TestDigestBody_SinglePosting(t *testing.T) {
	got := DigestBody([]model.Posting{{Title: "T", Posted: "Today", URL: "https://x/JR1"}})
	if got != "T\nToday\nhttps://x/JR1\n" {
		t.Errorf("DigestBody = %q", got)
	}
}

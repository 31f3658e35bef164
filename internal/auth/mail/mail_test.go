package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerificationCodeMessage(t *testing.T) {
	t.Parallel()

	msg := VerificationCodeMessage("Ada", "ada@example.com", 4821, 15*time.Minute)
	require.Equal(t, "ada@example.com", msg.To)
	require.Contains(t, msg.Subject, "verification code")
	require.Contains(t, msg.Body, "Hello Ada")
	require.Contains(t, msg.Body, "4821")
	require.Contains(t, msg.Body, "15m0s")

	anon := VerificationCodeMessage("  ", "ada@example.com", 1, time.Minute)
	require.True(t, strings.HasPrefix(anon.Body, "Hello,"))
}

func TestMessageBytes(t *testing.T) {
	t.Parallel()

	raw := string(Message{To: "ada@example.com", Subject: "Hi", Body: "line one\nline two"}.bytes("noreply@carecube.test"))
	require.Contains(t, raw, "From: noreply@carecube.test\r\n")
	require.Contains(t, raw, "To: ada@example.com\r\n")
	require.Contains(t, raw, "Subject: Hi\r\n")
	require.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	require.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
	}{
		{"no recipient", Message{Subject: "x"}},
		{"header injection in to", Message{To: "a@example.com\r\nBcc: b@example.com"}},
		{"header injection in subject", Message{To: "a@example.com", Subject: "hi\nBcc: b@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.msg.validate(), ErrInvalidMessage)
		})
	}
}

func TestNewSMTPMailerRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587})
	require.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestLogMailer(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	m := LogMailer{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, m.Send(context.Background(), Message{To: "ada@example.com", Subject: "Hi", Body: "code 12"}))
	require.Contains(t, buf.String(), "ada@example.com")
	require.Contains(t, buf.String(), "code 12")

	require.ErrorIs(t, m.Send(context.Background(), Message{}), ErrInvalidMessage)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := &Recorder{}
	_, ok := r.Last()
	require.False(t, ok)

	require.NoError(t, r.Send(context.Background(), Message{To: "a@example.com"}))
	require.NoError(t, r.Send(context.Background(), Message{To: "b@example.com"}))
	last, ok := r.Last()
	require.True(t, ok)
	require.Equal(t, "b@example.com", last.To)
	require.Len(t, r.Messages(), 2)

	r.Err = errors.New("relay down")
	require.Error(t, r.Send(context.Background(), Message{To: "c@example.com"}))
	require.Len(t, r.Messages(), 2)
}

func TestDispatcherDelivers(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	d := NewDispatcher(rec, discardLogger(), 6000, 8)
	d.Start()
	require.True(t, d.Ready())

	ctx := context.Background()
	require.NoError(t, d.Send(ctx, Message{To: "a@example.com"}))
	require.NoError(t, d.Send(ctx, Message{To: "b@example.com"}))

	require.Eventually(t, func() bool { return len(rec.Messages()) == 2 }, 2*time.Second, 5*time.Millisecond)

	d.Stop()
	require.False(t, d.Ready())
	require.ErrorIs(t, d.Send(ctx, Message{To: "c@example.com"}), ErrDispatcherClosed)
}

func TestDispatcherQueueFull(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	d := NewDispatcher(rec, discardLogger(), 60, 1)

	ctx := context.Background()
	require.NoError(t, d.Send(ctx, Message{To: "a@example.com"}))
	require.ErrorIs(t, d.Send(ctx, Message{To: "b@example.com"}), ErrQueueFull)
	require.Equal(t, 1, d.Pending())

	// Stop without Start still delivers what was queued.
	d.Stop()
	require.Len(t, rec.Messages(), 1)
	require.Equal(t, 0, d.Pending())
}

func TestDispatcherStopDrainsPacedQueue(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	// One message per minute: everything after the first waits on the limiter.
	d := NewDispatcher(rec, discardLogger(), 1, 8)
	d.Start()

	ctx := context.Background()
	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, d.Send(ctx, Message{To: to}))
	}

	require.Eventually(t, func() bool { return len(rec.Messages()) >= 1 }, 2*time.Second, 5*time.Millisecond)
	d.Stop()
	require.Len(t, rec.Messages(), 3)
}

func TestDispatcherFailureIsLoggedNotReturned(t *testing.T) {
	t.Parallel()

	rec := &Recorder{Err: errors.New("relay down")}
	d := NewDispatcher(rec, discardLogger(), 6000, 4)
	d.Start()
	defer d.Stop()

	require.NoError(t, d.Send(context.Background(), Message{To: "a@example.com"}))
	require.ErrorIs(t, d.Send(context.Background(), Message{}), ErrInvalidMessage)
}

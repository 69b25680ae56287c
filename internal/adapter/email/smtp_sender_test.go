package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/app/config"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.sent = append(f.sent, m...)
	return f.err
}

var validCfg = config.SMTPConfig{
	Host:        "smtp.example.com",
	Port:        587,
	Username:    "user",
	Password:    "fakepassword",
	SenderEmail: "market@example.com",
	Encryption:  "tls",
}

func TestNewSMTPSender_IncompleteConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{name: "Missing Host", cfg: config.SMTPConfig{Port: 587, SenderEmail: "a@b.c"}},
		{name: "Missing Port", cfg: config.SMTPConfig{Host: "smtp.example.com", SenderEmail: "a@b.c"}},
		{name: "Missing SenderEmail", cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSMTPSender(tc.cfg, logger.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be configured")
		})
	}
}

func TestNewSMTPSender_SSL(t *testing.T) {
	cfg := validCfg
	cfg.Encryption = "SSL"

	sender, err := NewSMTPSender(cfg, logger.NewNop())
	require.NoError(t, err)

	d := sender.(*smtpSender).d.(*gomail.Dialer)
	assert.True(t, d.SSL)
	require.NotNil(t, d.TLSConfig)
	assert.Equal(t, "smtp.example.com", d.TLSConfig.ServerName)
}

func TestSMTPSender_SendPlainText(t *testing.T) {
	fd := &fakeDialer{}
	s := newSender(validCfg, logger.NewNop(), fd)

	err := s.Send(context.Background(), []string{"hello@cleanout.market"}, "Purchase Request - Cleanout Market", "", "Hi Cleanout Market team,")
	require.NoError(t, err)
	require.Len(t, fd.sent, 1)

	msg := fd.sent[0]
	assert.Equal(t, []string{"market@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"hello@cleanout.market"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hi Cleanout Market team,")
}

func TestSMTPSender_Validation(t *testing.T) {
	s := newSender(validCfg, logger.NewNop(), &fakeDialer{})

	require.Error(t, s.Send(context.Background(), nil, "s", "", "body"))
	require.Error(t, s.Send(context.Background(), []string{"a@b.c"}, "s", "", ""))
}

func TestSMTPSender_DialError(t *testing.T) {
	s := newSender(validCfg, logger.NewNop(), &fakeDialer{err: errors.New("connection refused")})

	err := s.Send(context.Background(), []string{"a@b.c"}, "s", "", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSender_ContextTimeout(t *testing.T) {
	s := newSender(validCfg, logger.NewNop(), &fakeDialer{delay: 200 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, []string{"a@b.c"}, "s", "", "body")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

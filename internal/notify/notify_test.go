// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewSMTPSender(SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "concierge@example.com",
	})
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.SendEmail(context.Background(), "diner@example.com", Subject, "Hello!")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "concierge@example.com", gotFrom)
	assert.Equal(t, []string{"diner@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: "+Subject)
	assert.True(t, strings.HasSuffix(body, "\r\nHello!"))
}

func TestSMTPSenderRejectsEmptyRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "h", Port: 25, From: "f@x"})
	assert.Error(t, s.SendEmail(context.Background(), "  ", Subject, "body"))
}

func TestSMSGatewayPostsNormalizedNumber(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	g := NewSMSGateway(srv.URL)
	err := g.SendSMS(context.Background(), "5551234567", "your table awaits")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got["phoneNumber"])
	assert.Equal(t, "your table awaits", got["message"])
}

func TestSMSGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewSMSGateway(srv.URL)
	assert.Error(t, g.SendSMS(context.Background(), "5551234567", "msg"))
}

func TestServiceSMSDisabled(t *testing.T) {
	svc := NewService(NewSMTPSender(SMTPConfig{Host: "h", Port: 25, From: "f@x"}), nil)
	err := svc.SendSMS(context.Background(), "5551234567", "msg")
	assert.ErrorIs(t, err, ErrSMSDisabled)
}

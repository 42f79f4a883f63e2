// SPDX-License-Identifier: MIT

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dinebot/concierge/internal/log"
)

// SMSGateway posts messages to an HTTP SMS gateway. Numbers are normalized to
// +1<number>, matching the upstream delivery expectation.
type SMSGateway struct {
	base string
	http *http.Client
}

// NewSMSGateway creates a client for the gateway at base.
func NewSMSGateway(base string) *SMSGateway {
	return &SMSGateway{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSMS delivers body to phoneNumber through the gateway.
func (g *SMSGateway) SendSMS(ctx context.Context, phoneNumber, body string) error {
	payload, err := json.Marshal(map[string]string{
		"phoneNumber": "+1" + phoneNumber,
		"message":     body,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned %s", res.Status)
	}

	logger := log.WithComponentFromContext(ctx, "notify")
	logger.Debug().
		Str("event", "notify.sms_sent").
		Str(log.FieldChannel, "sms").
		Msg("recommendation SMS delivered")
	return nil
}

// SPDX-License-Identifier: MIT

package worker

import (
	"encoding/json"
	"fmt"

	"github.com/dinebot/concierge/internal/dialog"
)

// Request is the decoded fulfillment request: the slot snapshot the dialog
// side enqueued at closure time.
type Request struct {
	Cuisine      string
	Location     string
	PartySize    string
	Date         string
	Time         string
	PhoneNumber  string
	EmailAddress string
}

// parseRequest decodes a queue message body. Cuisine (the search term) and
// the email address (the delivery channel) are required; everything else only
// feeds the greeting and may be blank.
func parseRequest(body []byte) (*Request, error) {
	var slots dialog.SlotSet
	if err := json.Unmarshal(body, &slots); err != nil {
		return nil, fmt.Errorf("decode slot set: %w", err)
	}

	get := func(name string) string {
		v, _ := slots.Value(name)
		return v
	}

	req := &Request{
		Cuisine:      get(dialog.SlotCuisine),
		Location:     get(dialog.SlotLocation),
		PartySize:    get(dialog.SlotNumberOfPeople),
		Date:         get(dialog.SlotDate),
		Time:         get(dialog.SlotTime),
		PhoneNumber:  get(dialog.SlotPhoneNumber),
		EmailAddress: get(dialog.SlotEmailAddress),
	}
	if req.Cuisine == "" {
		return nil, fmt.Errorf("request has no cuisine")
	}
	if req.EmailAddress == "" {
		return nil, fmt.Errorf("request has no email address")
	}
	return req, nil
}

// SPDX-License-Identifier: MIT

package worker

import (
	"fmt"
	"strings"

	"github.com/dinebot/concierge/internal/store"
)

const greetingTemplate = "Hello! Here are my %s restaurant suggestions in %s for %s people, for %s at %s: "

// composeMessage renders the recommendation text: the greeting, then one
// enumerated line per resolved record in resolution order. With no records
// the greeting stands alone.
func composeMessage(req *Request, records []*store.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, greetingTemplate,
		req.Cuisine, req.Location, req.PartySize, req.Date, req.Time)
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s, located at %s. ", i, rec.Name, rec.Address)
	}
	return b.String()
}

// SPDX-License-Identifier: MIT

package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rules holds the configured validation bounds. Location and Now are injected
// so tests can pin the clock.
type Rules struct {
	City     string
	Cuisines []string
	MinParty int
	MaxParty int
	Location *time.Location
	Now      func() time.Time
}

// Validator checks a slot set in a fixed order and reports the first violation.
// Validation is pure: no state survives between calls.
type Validator struct {
	rules Rules
}

// NewValidator builds a Validator. Missing Location defaults to UTC, missing
// Now to time.Now.
func NewValidator(rules Rules) *Validator {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	if rules.Now == nil {
		rules.Now = time.Now
	}
	return &Validator{rules: rules}
}

func invalid(slot, message string) ValidationResult {
	return ValidationResult{IsValid: false, ViolatedSlot: slot, Message: message}
}

// Validate runs the ordered checks: location, cuisine, numberOfPeople, date,
// time, phoneNumber. It returns on the first failure so the engine asks one
// clarifying question per turn; later slots stay unvalidated that turn.
func (v *Validator) Validate(slots SlotSet) ValidationResult {
	r := v.rules

	location, ok := slots.Value(SlotLocation)
	if !ok {
		return invalid(SlotLocation,
			"Great. I can help you with that. What city or city area are you looking to dine in?")
	}
	if !strings.EqualFold(location, r.City) {
		return invalid(SlotLocation,
			fmt.Sprintf("I can find a restaurant for you in %s, Can you please try again?", r.City))
	}

	cuisine, ok := slots.Value(SlotCuisine)
	if !ok {
		return invalid(SlotCuisine,
			fmt.Sprintf("Got it, %s. What cuisine would you like to try?", r.City))
	}
	if !containsFold(r.Cuisines, cuisine) {
		return invalid(SlotCuisine,
			fmt.Sprintf("Sorry, I can't find restaurants for %s cuisine. Could you try another one?", cuisine))
	}

	partyRaw, ok := slots.Value(SlotNumberOfPeople)
	if !ok {
		return invalid(SlotNumberOfPeople, "Ok, how many people are in your party?")
	}
	party, err := strconv.Atoi(partyRaw)
	if err != nil || party < r.MinParty || party > r.MaxParty {
		return invalid(SlotNumberOfPeople,
			fmt.Sprintf("I suggest to book for a minimum of %d & a maximum of %d people.", r.MinParty, r.MaxParty))
	}

	dateRaw, ok := slots.Value(SlotDate)
	if !ok {
		return invalid(SlotDate, "A few more to go. What date?")
	}
	date, err := time.ParseInLocation("2006-01-02", dateRaw, r.Location)
	if err != nil {
		return invalid(SlotDate,
			"I did not understand that, what date would you like to go to the restaurant?")
	}
	now := r.Now().In(r.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.Location)
	if date.Before(today) {
		return invalid(SlotDate,
			"You can reserve your seats only in the future. What date would you like to go to the restaurant?")
	}

	timeRaw, ok := slots.Value(SlotTime)
	if !ok {
		return invalid(SlotTime, "What time?")
	}
	hour, minute, ok := parseClock(timeRaw)
	if !ok {
		return invalid(SlotTime,
			fmt.Sprintf("Invalid Time format -> %s. Can you try again?", timeRaw))
	}
	at := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, r.Location)
	if at.Before(now) {
		return invalid(SlotTime,
			"You can reserve your seats only in the future. Can you specify a time in the future?")
	}

	phone, ok := slots.Value(SlotPhoneNumber)
	if !ok {
		return invalid(SlotPhoneNumber,
			"Great. Lastly, I need your phone number so I can send you my findings.")
	}
	// Length-only check, as upstream: digit content is not verified.
	if len(phone) != 10 {
		return invalid(SlotPhoneNumber, "Please enter a valid 10-digit phone number.")
	}

	return ValidationResult{IsValid: true}
}

// parseClock accepts exactly "HH:MM" with hour 00..23 and minute 00..59.
func parseClock(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(s[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func containsFold(set []string, s string) bool {
	for _, member := range set {
		if strings.EqualFold(member, s) {
			return true
		}
	}
	return false
}

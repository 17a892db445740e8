// Package assistant answers free-text workspace questions with a fixed set
// of keyword rules and turns accepted suggestions into bookings.
package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Intent is the category a message is routed to.
type Intent string

const (
	IntentBookLocation   Intent = "book-location"
	IntentAvailableRooms Intent = "available-rooms"
	IntentBookTime       Intent = "book-time"
	IntentMyBookings     Intent = "my-bookings"
	IntentBooking        Intent = "booking"
	IntentInformation    Intent = "information"
	IntentGeneral        Intent = "general"
)

type rule struct {
	intent Intent
	match  func(text string) bool
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{IntentBookLocation, func(t string) bool {
		return strings.Contains(t, "book") && (strings.Contains(t, " in ") || strings.Contains(t, "coworking"))
	}},
	{IntentAvailableRooms, anyOf("available", "rooms", "spaces")},
	{IntentBookTime, func(t string) bool {
		return strings.Contains(t, "book") && anyOf("from", " to ", " at ")(t)
	}},
	{IntentMyBookings, anyOf("previous", "past", "my booking")},
	{IntentBooking, anyOf("book", "reserve")},
	{IntentInformation, anyOf("about", "facilities", "help")},
}

func anyOf(words ...string) func(string) bool {
	return func(t string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}
}

// ClassifyIntent maps text to an intent.  It is pure and case-insensitive.
func ClassifyIntent(text string) Intent {
	t := strings.ToLower(text)
	for _, r := range rules {
		if r.match(t) {
			return r.intent
		}
	}
	return IntentGeneral
}

var (
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|at)\s+([^,\n]+)`)
	timePattern     = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
)

// ExtractLocation returns the phrase after the first "in" or "at", up to a
// comma or line break.  Trailing punctuation and a trailing day word are
// dropped.  It returns "" when nothing matches.
func ExtractLocation(text string) string {
	m := locationPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	loc := strings.TrimRight(strings.TrimSpace(m[1]), ".?!")
	for _, suffix := range []string{" today", " tomorrow"} {
		if strings.HasSuffix(strings.ToLower(loc), suffix) {
			loc = loc[:len(loc)-len(suffix)]
		}
	}
	return strings.TrimSpace(loc)
}

// ExtractTimes returns every 12-hour clock time in text as 24-hour "HH:MM",
// in order of appearance.  Out-of-range values are skipped.
func ExtractTimes(text string) []string {
	var out []string
	for _, m := range timePattern.FindAllStringSubmatch(text, -1) {
		hh, err := strconv.Atoi(m[1])
		if err != nil || hh < 1 || hh > 12 {
			continue
		}
		mm := 0
		if m[2] != "" {
			if mm, err = strconv.Atoi(m[2]); err != nil || mm > 59 {
				continue
			}
		}
		pm := strings.EqualFold(m[3], "pm")
		switch {
		case hh == 12 && !pm:
			hh = 0
		case hh != 12 && pm:
			hh += 12
		}
		out = append(out, fmt.Sprintf("%02d:%02d", hh, mm))
	}
	return out
}

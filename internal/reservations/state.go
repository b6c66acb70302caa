package reservations

import (
	"errors"
	"fmt"
)

type Event string

const (
	EventAccept  Event = "accept"
	EventDecline Event = "decline"
	EventCancel  Event = "cancel"
)

var ErrNoTransition = errors.New("no transition")

// Pending may move to Accepted, Declined or deleted. Accepted may only be deleted. Declined is terminal.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventAccept:  StatusAccepted,
		EventDecline: StatusDeclined,
		EventCancel:  StatusDeleted,
	},
	StatusAccepted: {
		EventCancel: StatusDeleted,
	},
}

// Next returns the state reached from `from` via ev.
func Next(from Status, ev Event) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrNoTransition, ev, from)
	}
	return to, nil
}

// ParseDecision maps a staff decision ("Accepted" / "Declined") to its event.
func ParseDecision(s string) (Event, bool) {
	switch Status(s) {
	case StatusAccepted:
		return EventAccept, true
	case StatusDeclined:
		return EventDecline, true
	}
	return "", false
}

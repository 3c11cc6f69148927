package models

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant возвращается, когда значение перечисления из хранилища не распознано
var ErrUnknownVariant = errors.New("unknown enum variant")

type EventType string

const (
	EventTypeConference EventType = "conference"
	EventTypeSeminar    EventType = "seminar"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeWebinar    EventType = "webinar"
	EventTypeNetworking EventType = "networking"
)

func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventTypeConference, EventTypeSeminar, EventTypeWorkshop, EventTypeWebinar, EventTypeNetworking:
		return t, nil
	}
	return "", fmt.Errorf("event_type %q: %w", s, ErrUnknownVariant)
}

type EventFormat string

const (
	EventFormatOnline  EventFormat = "online"
	EventFormatOffline EventFormat = "offline"
	EventFormatHybrid  EventFormat = "hybrid"
)

func ParseEventFormat(s string) (EventFormat, error) {
	switch f := EventFormat(s); f {
	case EventFormatOnline, EventFormatOffline, EventFormatHybrid:
		return f, nil
	}
	return "", fmt.Errorf("format %q: %w", s, ErrUnknownVariant)
}

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

func ParseRegistrationStatus(s string) (RegistrationStatus, error) {
	switch st := RegistrationStatus(s); st {
	case RegistrationRegistered, RegistrationAttended, RegistrationCancelled:
		return st, nil
	}
	return "", fmt.Errorf("registration status %q: %w", s, ErrUnknownVariant)
}

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

func ParseConnectionStatus(s string) (ConnectionStatus, error) {
	switch st := ConnectionStatus(s); st {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected:
		return st, nil
	}
	return "", fmt.Errorf("connection status %q: %w", s, ErrUnknownVariant)
}

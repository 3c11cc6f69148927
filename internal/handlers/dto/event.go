package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// форматы даты: RFC3339 и datetime-local из браузера (без зоны, считается UTC)
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// EventTime принимает дату мероприятия в любом из eventTimeLayouts
type EventTime struct {
	time.Time
}

func ParseEventTime(s string) (EventTime, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return EventTime{Time: t.UTC()}, nil
		}
	}
	return EventTime{}, fmt.Errorf("date %q: expected RFC3339 or YYYY-MM-DDTHH:MM", s)
}

func (t *EventTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseEventTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Ptr возвращает время или nil для необязательных полей
func (t *EventTime) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

type CreateEventRequest struct {
	Title           string     `json:"title" binding:"required,max=200"`
	Description     *string    `json:"description"`
	EventType       string     `json:"event_type" binding:"required,event_type"`
	Format          string     `json:"format" binding:"required,event_format"`
	Date            *EventTime `json:"date" binding:"required"`
	EndDate         *EventTime `json:"end_date"`
	Location        *string    `json:"location"`
	MaxParticipants *int       `json:"max_participants" binding:"omitempty,gt=0"`
	ImageURL        *string    `json:"image_url" binding:"omitempty,url"`
}

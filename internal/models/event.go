package models

import (
	"gorm.io/gorm"
)

// EventID is the primary key of the single event row.
const EventID = 1

type EventContent struct {
	Title       string `json:"title" doc:"Event title"`
	Description string `json:"description" doc:"Event description"`
	Date        string `json:"date" doc:"Free-text date, e.g. March 15, 2025"`
	Location    string `json:"location" doc:"Venue"`
}

type Event struct {
	gorm.Model
	EventContent `gorm:"embedded"`
}

// DefaultEventContent is served until an admin edits the event.
func DefaultEventContent() EventContent {
	return EventContent{
		Title:       "Annual Spell-Bee Competition 2025",
		Description: "Join us for an exciting spelling competition showcasing English language proficiency. Open to students from grades 3-12.",
		Date:        "March 15, 2025",
		Location:    "Community Center Auditorium",
	}
}

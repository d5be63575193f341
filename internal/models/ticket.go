// Package models defines the records persisted by Kendall Manager Pro.
package models

// Status classifies a ticket's lifecycle stage.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Statuses lists the allowed status values in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Ticket is a single support ticket. Id is derived from the creation
// timestamp (epoch milliseconds) and is the only identity invariant of the
// collection. Created is an ISO-8601 timestamp string. Description and
// Priority are optional.
type Ticket struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	Created     string `json:"created"`
}

// TicketDraft is the transient, unsaved form data for creating or editing a
// ticket. It mirrors Ticket minus ID/Created.
type TicketDraft struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// Stats are read-only projections over a ticket collection. They are always
// recomputed from the list, never stored.
type Stats struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}

// ComputeStats tallies the collection by status.
func ComputeStats(tickets []Ticket) Stats {
	s := Stats{Total: len(tickets)}
	for _, t := range tickets {
		switch Status(t.Status) {
		case StatusOpen:
			s.Open++
		case StatusInProgress:
			s.InProgress++
		case StatusClosed:
			s.Closed++
		}
	}
	return s
}

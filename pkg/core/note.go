// Package core holds the domain types shared by the session manager, the
// notes sync client and the storage adapters.
package core

import (
	"fmt"
	"strconv"
)

// Note is the central entity of the domain.
// The ID is assigned by the remote service and never fabricated locally.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// EventType represents the type of change observed by a subscriber.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventDelete  EventType = "DELETE"
	EventReplace EventType = "REPLACE"

	// Session events.
	EventLogin  EventType = "LOGIN"
	EventLogout EventType = "LOGOUT"
)

// Event represents a change in the notes collection or in the session.
type Event struct {
	Type      EventType
	ID        int64 // Note ID for CREATE/DELETE, zero otherwise
	Count     int   // Collection size after a REPLACE
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	switch e.Type {
	case EventCreate, EventDelete:
		return fmt.Sprintf("%s %s", e.Type, strconv.FormatInt(e.ID, 10))
	case EventReplace:
		return fmt.Sprintf("%s %d notes", e.Type, e.Count)
	default:
		return string(e.Type)
	}
}

// ChangeKind tells which store mutation a write operation produced.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeInserted
	ChangeRemoved
	ChangeReplaced
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInserted:
		return "inserted"
	case ChangeRemoved:
		return "removed"
	case ChangeReplaced:
		return "replaced"
	default:
		return "none"
	}
}

// Change describes what a confirmed server operation did to the collection.
// Only one of Note (inserted), ID (removed) or Notes (replaced) is meaningful.
type Change struct {
	Kind  ChangeKind
	Note  Note
	ID    int64
	Notes []Note
}

// Inserted returns a change that appends n.
func Inserted(n Note) Change { return Change{Kind: ChangeInserted, Note: n, ID: n.ID} }

// Removed returns a change that removes the note with the given id.
func Removed(id int64) Change { return Change{Kind: ChangeRemoved, ID: id} }

// Replaced returns a change that swaps the whole collection for notes.
func Replaced(notes []Note) Change {
	if notes == nil {
		notes = []Note{}
	}
	return Change{Kind: ChangeReplaced, Notes: notes}
}

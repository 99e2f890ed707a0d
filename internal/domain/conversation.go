package domain

import (
	"sort"
	"strings"
	"time"
)

// SummaryMarker separates dialogue from generated notes inside conversation content.
const SummaryMarker = "## Summary"

// ConversationMeta is the list view of a stored conversation.
type ConversationMeta struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	UserID string    `json:"userId"`
}

// Conversation is a stored dialogue owned by a single user.
type Conversation struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Content  string    `json:"dialogue"`
	Summary  string    `json:"summary"`
	Feedback string    `json:"feedback"`
}

// Meta strips the content fields.
func (c Conversation) Meta() ConversationMeta {
	return ConversationMeta{ID: c.ID, Title: c.Title, Date: c.Date, UserID: c.UserID}
}

// Dialogue returns the content before the summary marker.
func (c Conversation) Dialogue() string {
	dialogue, _, _ := strings.Cut(c.Content, SummaryMarker)
	return strings.TrimSpace(dialogue)
}

// NotesUpdate carries generated notes; nil fields are left untouched.
type NotesUpdate struct {
	Summary  *string
	Feedback *string
}

// SortConversations orders conversations newest first.
func SortConversations(items []ConversationMeta) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
}

// Prefix returns at most n runes of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

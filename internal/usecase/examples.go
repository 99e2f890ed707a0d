package usecase

import (
	"context"
	"fmt"
	"time"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

// Onboarding seeds new users with example conversations.
type Onboarding struct {
	store ports.ConversationStore
	now   func() time.Time
}

// NewOnboarding builds the seeding use case.
func NewOnboarding(store ports.ConversationStore) *Onboarding {
	return &Onboarding{store: store, now: time.Now}
}

// InitUser writes the examples the user does not have yet and reports how many were created.
func (o *Onboarding) InitUser(ctx context.Context, userID string) (int, error) {
	created, err := o.store.Seed(ctx, userID, ExampleConversations(userID, o.now()))
	if err != nil {
		return 0, fmt.Errorf("seed examples for %s: %w", userID, err)
	}
	return created, nil
}

// ExampleConversations returns the starter documents dated relative to now.
func ExampleConversations(userID string, now time.Time) []domain.Conversation {
	now = now.UTC().Truncate(time.Second)
	return []domain.Conversation{
		{
			ID:       "welcome-to-your-viewer",
			UserID:   userID,
			Title:    "Welcome to Your Markdown Viewer",
			Date:     now,
			Summary:  "Introduction to your personal conversation viewer with features and capabilities",
			Feedback: "This is a great starting point to understand the system!",
			Content: `# Dialogue

## User
Hello! What is this application?

## Assistant
Welcome to your personal Markdown Viewer! It lets you view and organize your conversations in a secure environment.

Each conversation is stored as a markdown file, and only you can see your own conversations.

## User
What can I do with it?

## Assistant
You can:
- Browse all your conversations in the sidebar
- Read markdown-formatted dialogue
- Generate summaries and speaking feedback
- Get news headlines related to what you talked about
`,
		},
		{
			ID:     "planning-a-product-launch",
			UserID: userID,
			Title:  "Planning a Product Launch",
			Date:   now.Add(-24 * time.Hour),
			Content: `# Dialogue

## User
We are launching a budgeting app next quarter. How should we think about pricing?

## Assistant
Start from the value users get. Compare with competing finance apps, then test a free tier against a paid plan with a small group before the launch.

## User
What about marketing?

## Assistant
Focus on channels where your early adopters already spend time, and measure cost per acquisition from the first week.
`,
		},
		{
			ID:     "training-for-a-marathon",
			UserID: userID,
			Title:  "Training for a Marathon",
			Date:   now.Add(-7 * 24 * time.Hour),
			Content: `# Dialogue

## User
I signed up for my first marathon in spring. Where do I start?

## Assistant
Build a base of easy runs for a few weeks, then add one long run per week and increase it gradually. Sleep and nutrition matter as much as mileage.

## User
How do I avoid injuries?

## Assistant
Increase weekly distance slowly, include rest days, and pay attention to pain that does not go away after a day of rest.
`,
		},
	}
}

package registry

import (
	"errors"
	"testing"

	"ConversationViewer/internal/domain"
)

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	r, err := New(Defaults())
	if err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}

	want := []domain.Topic{"sports", "finance", "health", "politics", "technology",
		"entertainment", "science", "business", "world", "education"}
	got := r.Topics()
	if len(got) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topic %d: expected %s, got %s", i, want[i], got[i])
		}
		feeds, err := r.FeedsFor(want[i])
		if err != nil || len(feeds) != 5 {
			t.Fatalf("topic %s: feeds=%d err=%v", want[i], len(feeds), err)
		}
	}
}

func TestFeedsForUnknownTopic(t *testing.T) {
	t.Parallel()

	r := MustNew([]TopicFeeds{{Topic: "science", Feeds: []string{"http://a"}}})
	if _, err := r.FeedsFor("cooking"); !errors.Is(err, domain.ErrUnknownTopic) {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
	if r.Has("cooking") {
		t.Fatalf("cooking must not be a topic")
	}
}

func TestRegistryIsImmutable(t *testing.T) {
	t.Parallel()

	feeds := []string{"http://a", "http://b"}
	r := MustNew([]TopicFeeds{{Topic: "Science ", Feeds: feeds}})
	feeds[0] = "http://mutated"

	got, err := r.FeedsFor("science")
	if err != nil {
		t.Fatalf("FeedsFor: %v", err)
	}
	if got[0] != "http://a" {
		t.Fatalf("registry shares caller slice: %v", got)
	}

	got[1] = "http://mutated"
	again, _ := r.FeedsFor("science")
	if again[1] != "http://b" {
		t.Fatalf("registry exposes internal slice: %v", again)
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	cases := map[string][]TopicFeeds{
		"empty":     nil,
		"no feeds":  {{Topic: "world"}},
		"duplicate": {{Topic: "world", Feeds: []string{"a"}}, {Topic: "WORLD", Feeds: []string{"b"}}},
		"blank":     {{Topic: "  ", Feeds: []string{"a"}}},
		"comma":     {{Topic: "a,b", Feeds: []string{"a"}}},
	}
	for name, entries := range cases {
		if _, err := New(entries); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

const (
	selectExcerptRunes    = 500
	defaultCandidateLimit = 15
	defaultHeadlineLimit  = 3
)

// RelevanceSelector asks the completion service to pick the best candidates.
type RelevanceSelector struct {
	completer  ports.Completer
	candidates int
	headlines  int
	logger     *slog.Logger
}

// NewRelevanceSelector builds a selector; non-positive limits use 15 candidates and 3 headlines.
func NewRelevanceSelector(completer ports.Completer, candidates, headlines int, logger *slog.Logger) *RelevanceSelector {
	if candidates <= 0 {
		candidates = defaultCandidateLimit
	}
	if headlines <= 0 {
		headlines = defaultHeadlineLimit
	}
	return &RelevanceSelector{
		completer:  completer,
		candidates: candidates,
		headlines:  headlines,
		logger:     logger,
	}
}

// Select returns up to the headline limit of pool entries, falling back to the most recent ones.
func (s *RelevanceSelector) Select(ctx context.Context, text string, pool []domain.Article) ([]domain.Article, error) {
	if len(pool) == 0 {
		return []domain.Article{}, nil
	}

	shown := pool
	if len(shown) > s.candidates {
		shown = shown[:s.candidates]
	}

	response, err := s.completer.Complete(ctx, BuildSelectionPrompt(text, shown, s.headlines))
	if err != nil {
		return nil, &domain.SelectionError{Err: err}
	}

	indices := ParseSelection(response, len(shown), s.headlines)
	if len(indices) == 0 {
		if s.logger != nil {
			s.logger.Info("selection unparseable, using most recent", "raw", response)
		}
		return Fallback(pool, s.headlines), nil
	}

	selected := make([]domain.Article, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, shown[idx])
	}
	return selected, nil
}

// BuildSelectionPrompt embeds a short conversation excerpt and the numbered candidates.
func BuildSelectionPrompt(text string, candidates []domain.Article, limit int) string {
	return fmt.Sprintf(`Based on this conversation context, select the %d MOST relevant headline numbers from the list below. Reply with ONLY the numbers separated by commas (e.g., "1,5,8").

Conversation summary: %s

Headlines:
%s`, limit, domain.Prefix(text, selectExcerptRunes), RenderCandidates(candidates))
}

// RenderCandidates formats one 1-indexed line per article.
func RenderCandidates(candidates []domain.Article) string {
	lines := make([]string, len(candidates))
	for i, article := range candidates {
		lines[i] = fmt.Sprintf("%d. %s (%s - %s)", i+1, article.Title, article.Topic, article.Source)
	}
	return strings.Join(lines, "\n")
}

// ParseSelection turns a "2,7,15" style reply into distinct zero-based indices within [0, size).
func ParseSelection(response string, size, limit int) []int {
	var (
		indices []int
		seen    = map[int]bool{}
	)
	for _, token := range strings.Split(strings.TrimSpace(response), ",") {
		n, ok := leadingInt(token)
		if !ok {
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= size || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
		if len(indices) == limit {
			break
		}
	}
	return indices
}

// Fallback returns the first limit articles of the sorted pool.
func Fallback(pool []domain.Article, limit int) []domain.Article {
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return append([]domain.Article{}, pool...)
}

// leadingInt reads an optionally signed run of digits at the start of a token, ignoring quotes and brackets.
func leadingInt(token string) (int, bool) {
	token = strings.Trim(strings.TrimSpace(token), "\"'`[]()")
	end := 0
	if end < len(token) && (token[end] == '-' || token[end] == '+') {
		end++
	}
	digits := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

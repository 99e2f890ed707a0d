package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

const (
	frontMatterDelim = "---"
	conversationExt  = ".md"
)

// FileStore keeps one markdown document per conversation under <dir>/<user>/<id>.md.
type FileStore struct {
	dir string
	now func() time.Time

	// mu serializes read-modify-write cycles on notes.
	mu sync.Mutex
}

var _ ports.ConversationStore = (*FileStore)(nil)

// NewFileStore roots the store at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

type frontMatter struct {
	Title    string    `yaml:"title,omitempty"`
	Date     dateField `yaml:"date,omitempty"`
	Summary  string    `yaml:"summary,omitempty"`
	Feedback string    `yaml:"feedback,omitempty"`
}

// dateField accepts both YAML timestamps and plain date strings.
type dateField struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func (d *dateField) UnmarshalYAML(node *yaml.Node) error {
	value := strings.TrimSpace(node.Value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			d.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse date %q", value)
}

func (d dateField) MarshalYAML() (any, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.UTC().Format(time.RFC3339), nil
}

func (d dateField) IsZero() bool { return d.Time.IsZero() }

// List returns the user's conversations newest first, creating the user directory when absent.
func (s *FileStore) List(ctx context.Context, userID string) ([]domain.ConversationMeta, error) {
	if !validName(userID) {
		return nil, domain.ErrUnauthorized
	}

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("create user dir: %w", err)
	}

	entries, err := os.ReadDir(userDir)
	if err != nil {
		return nil, fmt.Errorf("read user dir: %w", err)
	}

	result := make([]domain.ConversationMeta, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != conversationExt {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), conversationExt)
		conversation, err := s.read(userID, id)
		if err != nil {
			return nil, err
		}
		result = append(result, conversation.Meta())
	}

	domain.SortConversations(result)
	return result, nil
}

// Get loads a single conversation; unknown or malformed ids are ErrNotFound.
func (s *FileStore) Get(_ context.Context, userID, id string) (domain.Conversation, error) {
	if !validName(userID) || !validName(id) {
		return domain.Conversation{}, domain.ErrNotFound
	}
	return s.read(userID, id)
}

// UpdateNotes rewrites the front matter of an existing conversation.
func (s *FileStore) UpdateNotes(_ context.Context, userID, id string, update domain.NotesUpdate) error {
	if !validName(userID) || !validName(id) {
		return domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, err := s.read(userID, id)
	if err != nil {
		return err
	}
	if update.Summary != nil {
		conversation.Summary = *update.Summary
	}
	if update.Feedback != nil {
		conversation.Feedback = *update.Feedback
	}
	return s.write(conversation)
}

// Seed writes conversations that do not exist yet and reports how many were created.
func (s *FileStore) Seed(_ context.Context, userID string, conversations []domain.Conversation) (int, error) {
	if !validName(userID) {
		return 0, domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(s.dir, userID), 0o755); err != nil {
		return 0, fmt.Errorf("create user dir: %w", err)
	}

	created := 0
	for _, conversation := range conversations {
		if !validName(conversation.ID) {
			return created, fmt.Errorf("invalid conversation id %q", conversation.ID)
		}
		conversation.UserID = userID

		_, err := os.Stat(s.path(userID, conversation.ID))
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("stat %s: %w", conversation.ID, err)
		}
		if err := s.write(conversation); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *FileStore) path(userID, id string) string {
	return filepath.Join(s.dir, userID, id+conversationExt)
}

func (s *FileStore) read(userID, id string) (domain.Conversation, error) {
	raw, err := os.ReadFile(s.path(userID, id))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Conversation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("read conversation %s: %w", id, err)
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("conversation %s: %w", id, err)
	}

	conversation := domain.Conversation{
		ID:       id,
		UserID:   userID,
		Title:    meta.Title,
		Date:     meta.Date.Time,
		Content:  body,
		Summary:  meta.Summary,
		Feedback: meta.Feedback,
	}
	if conversation.Title == "" {
		conversation.Title = id
	}
	if conversation.Date.IsZero() {
		conversation.Date = s.now().UTC()
	}
	return conversation, nil
}

// write replaces the document through a temp file and rename.
func (s *FileStore) write(conversation domain.Conversation) error {
	raw, err := renderDocument(conversation)
	if err != nil {
		return err
	}

	target := s.path(conversation.UserID, conversation.ID)
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+conversation.ID+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write conversation %s: %w", conversation.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace conversation %s: %w", conversation.ID, err)
	}
	return nil
}

func splitFrontMatter(raw []byte) (frontMatter, string, error) {
	var meta frontMatter

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return meta, text, nil
	}

	rest := text[len(frontMatterDelim):]
	header, body, found := strings.Cut(rest, "\n"+frontMatterDelim)
	if !found {
		return meta, text, nil
	}
	// Closing delimiter must end its line.
	if body != "" && body[0] != '\n' {
		return meta, text, nil
	}

	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return meta, "", fmt.Errorf("parse front matter: %w", err)
	}
	return meta, strings.TrimLeft(body, "\n"), nil
}

func renderDocument(conversation domain.Conversation) ([]byte, error) {
	header, err := yaml.Marshal(frontMatter{
		Title:    conversation.Title,
		Date:     dateField{conversation.Date},
		Summary:  conversation.Summary,
		Feedback: conversation.Feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(header)
	buf.WriteString(frontMatterDelim + "\n\n")
	buf.WriteString(conversation.Content)
	return buf.Bytes(), nil
}

// validName rejects anything that could leave the user's directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}

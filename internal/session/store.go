package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatllm/pkg/chattypes"
)

// ActiveLabel is the sentinel label for the active, not yet archived conversation.
const ActiveLabel = "Current conversation"

// ModelChangePrefix starts every model-change notice.
const ModelChangePrefix = "Model changed to "

// ErrConversationNotFound is returned when a label does not name a conversation of the store.
var ErrConversationNotFound = errors.New("conversation not found")

// Store is the conversation state of a single chat session.
type Store struct {
	currentLabel string
	active       chattypes.Conversation
	archive      map[string]chattypes.Conversation
	order        []string

	// resumedFrom names the archive entry the active conversation was forked from.
	resumedFrom string

	now   func() time.Time
	newID func() string
}

// New creates an empty store that uses the wall clock and random UUIDs.
func New() *Store {
	return NewWithGenerators(time.Now, uuid.NewString)
}

// NewWithGenerators creates an empty store with explicit clock and ID sources.
func NewWithGenerators(now func() time.Time, newID func() string) *Store {
	return &Store{
		currentLabel: ActiveLabel,
		active:       chattypes.Conversation{},
		archive:      make(map[string]chattypes.Conversation),
		now:          now,
		newID:        newID,
	}
}

// NewMessage builds a message stamped with the store's clock and ID source.
func (s *Store) NewMessage(role chattypes.Role, content chattypes.Content) chattypes.Message {
	return chattypes.Message{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}

// AppendActive appends msg to the active conversation.
func (s *Store) AppendActive(msg chattypes.Message) {
	s.active = append(s.active, msg)
}

// StartNew archives a non-empty active conversation under a freshly generated
// label and resets the store to an empty active conversation. It returns the
// label used and whether anything was archived.
func (s *Store) StartNew() (string, bool) {
	archived := false
	label := ""
	if len(s.active) > 0 {
		label = s.uniqueLabel(GenerateLabel(s.active, s.now()))
		s.archive[label] = s.active.Clone()
		s.order = append(s.order, label)
		archived = true
	}

	s.active = chattypes.Conversation{}
	s.currentLabel = ActiveLabel
	s.resumedFrom = ""
	return label, archived
}

// Select points the store at label. ActiveLabel selects the active conversation;
// any other label must be an archive key.
func (s *Store) Select(label string) error {
	if label != ActiveLabel {
		if _, ok := s.archive[label]; !ok {
			return fmt.Errorf("select %q: %w", label, ErrConversationNotFound)
		}
	}
	s.currentLabel = label
	return nil
}

// ResumeIfArchived forks the archived conversation currently selected into the
// active conversation and points the store back at ActiveLabel. It reports the
// resumed label, or false when the active conversation is already selected.
// The previous active conversation is replaced; a model-change notice at its
// end is carried over so a switch made while viewing the archive is kept.
func (s *Store) ResumeIfArchived() (string, bool) {
	if s.currentLabel == ActiveLabel {
		return "", false
	}

	label := s.currentLabel
	resumed := s.archive[label].Clone()
	if notice, ok := s.active.Last(); ok && IsModelChangeNotice(notice) {
		if last, ok := resumed.Last(); ok && IsModelChangeNotice(last) {
			resumed[len(resumed)-1] = notice
		} else {
			resumed = append(resumed, notice)
		}
	}
	s.active = resumed
	s.currentLabel = ActiveLabel
	s.resumedFrom = label
	return label, true
}

// SyncArchive writes a copy of the active conversation back into the archive
// entry it was resumed from. It reports the label written, if any.
func (s *Store) SyncArchive() (string, bool) {
	if s.resumedFrom == "" {
		return "", false
	}
	if _, ok := s.archive[s.resumedFrom]; !ok {
		s.resumedFrom = ""
		return "", false
	}

	s.archive[s.resumedFrom] = s.active.Clone()
	return s.resumedFrom, true
}

// NoteModelChange records a model switch as a system message in the active
// conversation. A notice directly following another notice replaces it.
func (s *Store) NoteModelChange(model string) chattypes.Message {
	notice := s.NewMessage(chattypes.RoleSystem, chattypes.PlainText(ModelChangePrefix+model))

	if last, ok := s.active.Last(); ok && IsModelChangeNotice(last) {
		s.active[len(s.active)-1] = notice
		return notice
	}

	s.active = append(s.active, notice)
	return notice
}

// IsModelChangeNotice reports whether msg is a notice produced by NoteModelChange.
func IsModelChangeNotice(msg chattypes.Message) bool {
	return msg.Role == chattypes.RoleSystem &&
		msg.Content.Kind == chattypes.ContentPlainText &&
		strings.HasPrefix(msg.Content.Text, ModelChangePrefix)
}

// CurrentLabel returns the label of the conversation currently shown.
func (s *Store) CurrentLabel() string {
	return s.currentLabel
}

// IsViewingArchive reports whether an archived conversation is currently shown.
func (s *Store) IsViewingArchive() bool {
	return s.currentLabel != ActiveLabel
}

// ResumedFrom returns the archive entry the active conversation is linked to, if any.
func (s *Store) ResumedFrom() (string, bool) {
	return s.resumedFrom, s.resumedFrom != ""
}

// Active returns a copy of the active conversation.
func (s *Store) Active() chattypes.Conversation {
	return s.active.Clone()
}

// Archived returns a copy of the archived conversation stored under label.
func (s *Store) Archived(label string) (chattypes.Conversation, error) {
	conv, ok := s.archive[label]
	if !ok {
		return nil, fmt.Errorf("archive %q: %w", label, ErrConversationNotFound)
	}
	return conv.Clone(), nil
}

// View returns a copy of the conversation currently shown.
func (s *Store) View() chattypes.Conversation {
	if s.currentLabel == ActiveLabel {
		return s.active.Clone()
	}
	return s.archive[s.currentLabel].Clone()
}

// Labels lists ActiveLabel followed by the archive labels in archive order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, len(s.order)+1)
	labels = append(labels, ActiveLabel)
	return append(labels, s.order...)
}

// ArchiveLen returns the number of archived conversations.
func (s *Store) ArchiveLen() int {
	return len(s.archive)
}

func (s *Store) uniqueLabel(base string) string {
	label := base
	for n := 2; s.labelTaken(label); n++ {
		label = fmt.Sprintf("%s (%d)", base, n)
	}
	return label
}

func (s *Store) labelTaken(label string) bool {
	if label == ActiveLabel {
		return true
	}
	_, ok := s.archive[label]
	return ok
}

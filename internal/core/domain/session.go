// internal/core/domain/session.go
package domain

import "time"

// NoticeLevel classifies a flash notice shown on the next page render
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message for the user
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// EditRow is a cart row in editing mode. It is only live while the cart
// revision it was opened at is still current.
type EditRow struct {
	Amount   int    `json:"amount"`
	Revision uint64 `json:"revision"`
}

// Session holds the ephemeral per-browser UI state. None of it is sent to
// the backend until the user explicitly adds or saves.
type Session struct {
	ID        string          `json:"id"`
	Pending   map[int]int     `json:"pending"`
	Editing   map[int]EditRow `json:"editing"`
	Notice    *Notice         `json:"notice,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSession returns an empty session
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Pending: make(map[int]int),
		Editing: make(map[int]EditRow),
	}
}

// Normalize makes sure the maps are usable after decoding
func (s *Session) Normalize() {
	if s.Pending == nil {
		s.Pending = make(map[int]int)
	}
	if s.Editing == nil {
		s.Editing = make(map[int]EditRow)
	}
}

// PendingAmount returns the pending quantity for an inventory item
func (s *Session) PendingAmount(id int) int {
	return s.Pending[id]
}

// AdjustPending changes the pending counter by delta, floored at 0
func (s *Session) AdjustPending(id, delta int) int {
	n := s.Pending[id] + delta
	if n <= 0 {
		delete(s.Pending, id)
		return 0
	}
	s.Pending[id] = n
	return n
}

// ResetPending clears the pending counter for an inventory item
func (s *Session) ResetPending(id int) {
	delete(s.Pending, id)
}

// BeginEdit puts a cart row into editing mode
func (s *Session) BeginEdit(id, amount int, revision uint64) {
	s.Editing[id] = EditRow{Amount: amount, Revision: revision}
}

// EditingRow returns the edit row for id if it is live at revision
func (s *Session) EditingRow(id int, revision uint64) (EditRow, bool) {
	row, ok := s.Editing[id]
	if !ok || row.Revision != revision {
		return EditRow{}, false
	}
	return row, true
}

// AdjustEdit changes the edit counter by delta, floored at 1
func (s *Session) AdjustEdit(id, delta int) int {
	row := s.Editing[id]
	row.Amount += delta
	if row.Amount < 1 {
		row.Amount = 1
	}
	s.Editing[id] = row
	return row.Amount
}

// EndEdit drops the edit row for id
func (s *Session) EndEdit(id int) {
	delete(s.Editing, id)
}

// PruneEdits drops edit rows opened at an older revision
func (s *Session) PruneEdits(revision uint64) {
	for id, row := range s.Editing {
		if row.Revision != revision {
			delete(s.Editing, id)
		}
	}
}

// Flash sets the notice to show on the next render
func (s *Session) Flash(level NoticeLevel, message string) {
	s.Notice = &Notice{Level: level, Message: message}
}

// TakeNotice returns and clears the pending notice
func (s *Session) TakeNotice() *Notice {
	n := s.Notice
	s.Notice = nil
	return n
}

package intake

import (
	"time"
)

// Stage is the session's position in the intake flow. Stages only move forward
// through the flow order; the exceptions are an explicit restart (back to
// StageGreeting) and informational turns that leave the stage untouched.
type Stage string

const (
	StageGreeting            Stage = "greeting"
	StageAwaitingName        Stage = "awaiting_name"
	StageAwaitingRole        Stage = "awaiting_role"
	StageAwaitingCategory    Stage = "awaiting_category"
	StageAwaitingDescription Stage = "awaiting_description"
	StageAwaitingEmail       Stage = "awaiting_email"
	StageAwaitingPhone       Stage = "awaiting_phone"
	StageAwaitingSlotChoice  Stage = "awaiting_slot_choice"
	StageConfirmed           Stage = "confirmed"
	StageClosed              Stage = "closed"
)

// Role is the caller's position in their case.
type Role string

const (
	RoleUnknown   Role = ""
	RoleVictim    Role = "victim"
	RolePlaintiff Role = "plaintiff"
)

// Category is the legal area the case falls under.
type Category string

const (
	CategoryUnknown     Category = ""
	CategoryCivil       Category = "civil"
	CategoryLabor       Category = "labor"
	CategoryCriminal    Category = "criminal"
	CategoryUnspecified Category = "unspecified"
)

// Session holds everything collected so far in one conversation. One record
// per conversation, owned by a SessionStore; the engine never shares state
// across sessions. Fields are set once and never overwritten except by an
// explicit restart.
type Session struct {
	ID          string   `json:"id"`
	Stage       Stage    `json:"stage"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Role        Role     `json:"role,omitempty"`
	Category    Category `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`

	// ProposedSlot is the slot currently offered to the caller. SlotCursor
	// indexes into the active catalogue; AfternoonOnly switches the active
	// catalogue to the afternoon partition.
	ProposedSlot  *Slot `json:"proposed_slot,omitempty"`
	ConfirmedSlot *Slot `json:"confirmed_slot,omitempty"`
	SlotCursor    int   `json:"slot_cursor"`
	AfternoonOnly bool  `json:"afternoon_only"`

	// TurnCount is incremented once per processed message and is used only
	// to rotate the default guidance phrasing.
	TurnCount int `json:"turn_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a fresh session at the greeting stage.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Stage:     StageGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset clears every collected field but keeps the session identity. A reset
// session starts a fresh lifetime: it may confirm a slot again.
func (s *Session) Reset() {
	s.Stage = StageGreeting
	s.Name = ""
	s.Email = ""
	s.Phone = ""
	s.Role = RoleUnknown
	s.Category = CategoryUnknown
	s.Description = ""
	s.ProposedSlot = nil
	s.ConfirmedSlot = nil
	s.SlotCursor = 0
	s.AfternoonOnly = false
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy so stores can hand out sessions without aliasing
// their internal state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.ProposedSlot != nil {
		slot := *s.ProposedSlot
		out.ProposedSlot = &slot
	}
	if s.ConfirmedSlot != nil {
		slot := *s.ConfirmedSlot
		out.ConfirmedSlot = &slot
	}
	return &out
}

// Closed reports whether the session accepts no further state changes.
func (s *Session) Closed() bool {
	return s.Stage == StageClosed
}

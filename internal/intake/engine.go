package intake

import (
	"fmt"
	"strings"
)

// Flow selects which question the welcome asks first.
type Flow string

const (
	// FlowRoleFirst jumps straight to the role question (the original flow).
	FlowRoleFirst Flow = "role_first"
	// FlowNameFirst collects the caller's name before the role.
	FlowNameFirst Flow = "name_first"
)

// Options configure the engine's flow variant and validation strictness.
type Options struct {
	Flow Flow
	// CollectContact inserts email and phone collection between the case
	// description and the slot proposal.
	CollectContact bool
	// StrictContact validates email ("@" and ".") and phone (>= 7 digits)
	// instead of accepting any text.
	StrictContact bool
	// DescriptionMinChars is the free-text fallback threshold.
	DescriptionMinChars int
	Catalog             Catalog
}

// Engine advances one session per message: a state machine keyed jointly by
// the session's stage and the classified intent. Advance is pure apart from
// mutating the session it is handed; it performs no I/O and never calls the
// narration or transport layers.
type Engine struct {
	opts       Options
	classifier *Classifier
}

// NewEngine builds an engine. Zero-value options select the role-first flow,
// permissive contact validation, and the built-in catalogue.
func NewEngine(opts Options) *Engine {
	if opts.Flow == "" {
		opts.Flow = FlowRoleFirst
	}
	if len(opts.Catalog.Standard) == 0 {
		opts.Catalog = DefaultCatalog()
	}
	return &Engine{
		opts:       opts,
		classifier: NewClassifier(opts.DescriptionMinChars),
	}
}

// Classify exposes the engine's classifier.
func (e *Engine) Classify(text string) Intent {
	return e.classifier.Classify(text)
}

// Advance consumes one caller message and returns the reply plus whether the
// call should end. The caller must hand in a session it owns exclusively for
// the duration of the call; the session store serializes concurrent messages
// for the same id.
func (e *Engine) Advance(s *Session, text string) (reply string, endCall bool) {
	intent := e.classifier.Classify(text)
	defer func() { s.TurnCount++ }()

	// Global transitions apply at any stage, before stage handling.
	switch intent {
	case IntentRestart:
		s.Reset()
		return restartAck, false
	case IntentRepeatRequest:
		if s.Closed() {
			return closedMessage, false
		}
		return stagePrompt(s), false
	case IntentTopicRole:
		if s.Closed() {
			return closedMessage, false
		}
		return infoRole, false
	case IntentTopicCategories:
		if s.Closed() {
			return closedMessage, false
		}
		return infoCategories, false
	case IntentTopicSchedule:
		if s.Closed() {
			return closedMessage, false
		}
		return infoSchedule, false
	case IntentLegalTopic:
		if s.Closed() {
			return closedMessage, false
		}
		return deferLegalTopic, false
	}

	switch s.Stage {
	case StageGreeting:
		return e.welcome(s), false
	case StageAwaitingName:
		return e.handleName(s, intent, text), false
	case StageAwaitingRole:
		return e.handleRole(s, intent), false
	case StageAwaitingCategory:
		return e.handleCategory(s, intent), false
	case StageAwaitingDescription:
		return e.handleDescription(s, intent, text), false
	case StageAwaitingEmail:
		return e.handleEmail(s, text), false
	case StageAwaitingPhone:
		return e.handlePhone(s, text), false
	case StageAwaitingSlotChoice:
		return e.handleSlotChoice(s, intent, text), false
	case StageConfirmed:
		return e.handleConfirmed(s, intent)
	default: // StageClosed: fields frozen, only a closing reply.
		return closedMessage, false
	}
}

// welcome emits the greeting and moves to the first question of the
// configured flow. Any input at the greeting stage that isn't a global rule
// starts the flow; the caller may well open with their problem instead of
// "hola".
func (e *Engine) welcome(s *Session) string {
	if e.opts.Flow == FlowNameFirst {
		s.Stage = StageAwaitingName
		return welcomeNameFirst
	}
	s.Stage = StageAwaitingRole
	return welcomeRoleFirst
}

func (e *Engine) handleName(s *Session, intent Intent, text string) string {
	// Role keywords short-circuit the name question: "soy víctima" answers
	// the next question early.
	if intent == IntentRoleVictim || intent == IntentRolePlaintiff {
		s.Stage = StageAwaitingRole
		return e.handleRole(s, intent)
	}
	if intent != IntentUnclassified && intent != IntentFreeText && intent != IntentGreeting {
		return guidance(s)
	}
	name := strings.TrimSpace(text)
	if name == "" || intent == IntentGreeting {
		return guidance(s)
	}
	s.Name = name
	s.Stage = StageAwaitingRole
	return fmt.Sprintf(askRoleAfterName, s.Name)
}

func (e *Engine) handleRole(s *Session, intent Intent) string {
	switch intent {
	case IntentRoleVictim:
		s.Role = RoleVictim
		s.Stage = StageAwaitingCategory
		return categoryPromptVictim
	case IntentRolePlaintiff:
		s.Role = RolePlaintiff
		s.Stage = StageAwaitingCategory
		return categoryPromptPlaintiff
	default:
		return guidance(s)
	}
}

func (e *Engine) handleCategory(s *Session, intent Intent) string {
	var cat Category
	switch intent {
	case IntentCategoryCivil:
		cat = CategoryCivil
	case IntentCategoryLabor:
		cat = CategoryLabor
	case IntentCategoryCriminal:
		cat = CategoryCriminal
	case IntentCategoryUnknown:
		cat = CategoryUnspecified
	default:
		return guidance(s)
	}
	s.Category = cat
	s.Stage = StageAwaitingDescription
	return descriptionPrompts[cat]
}

func (e *Engine) handleDescription(s *Session, intent Intent, text string) string {
	if intent != IntentFreeText {
		return guidance(s)
	}
	s.Description = strings.TrimSpace(text)
	if e.opts.CollectContact {
		s.Stage = StageAwaitingEmail
		return askEmail
	}
	return e.proposeFirstSlot(s)
}

func (e *Engine) handleEmail(s *Session, text string) string {
	email := strings.TrimSpace(text)
	if e.opts.StrictContact && !looksLikeEmail(email) {
		return askEmailAgain
	}
	if email == "" {
		return guidance(s)
	}
	s.Email = email
	s.Stage = StageAwaitingPhone
	return askPhone
}

func (e *Engine) handlePhone(s *Session, text string) string {
	phone := strings.TrimSpace(text)
	if e.opts.StrictContact && countDigits(phone) < 7 {
		return askPhoneAgain
	}
	if phone == "" {
		return guidance(s)
	}
	s.Phone = phone
	return e.proposeFirstSlot(s)
}

// proposeFirstSlot emits the fee disclosure plus the first catalogue slot.
func (e *Engine) proposeFirstSlot(s *Session) string {
	s.Stage = StageAwaitingSlotChoice
	s.SlotCursor = 0
	s.AfternoonOnly = false
	slot := e.opts.Catalog.current(s)
	s.ProposedSlot = &slot
	return fmt.Sprintf(feeDisclosure, slot.Label)
}

func (e *Engine) handleSlotChoice(s *Session, intent Intent, text string) string {
	switch intent {
	case IntentAffirmative:
		if s.ProposedSlot == nil {
			slot := e.opts.Catalog.current(s)
			s.ProposedSlot = &slot
		}
		return e.confirm(s, *s.ProposedSlot)
	case IntentNegative:
		slot := e.opts.Catalog.next(s)
		s.ProposedSlot = &slot
		return fmt.Sprintf(slotCounterProposal, slot.Label)
	case IntentPrefersAfternoon:
		s.AfternoonOnly = true
		s.SlotCursor = 0
		list := e.opts.Catalog.Afternoon
		slot := list[0]
		s.ProposedSlot = &slot
		return fmt.Sprintf(afternoonList, list[0].Label, list[1].Label, list[2].Label)
	case IntentSlotChoice:
		if slot, ok := e.opts.Catalog.match(s, text); ok {
			return e.confirm(s, slot)
		}
		return guidance(s)
	default:
		return guidance(s)
	}
}

func (e *Engine) confirm(s *Session, slot Slot) string {
	s.ConfirmedSlot = &slot
	s.ProposedSlot = &slot
	s.Stage = StageConfirmed
	return confirmationMessage(s)
}

func (e *Engine) handleConfirmed(s *Session, intent Intent) (string, bool) {
	switch intent {
	case IntentNegative, IntentClosing:
		s.Stage = StageClosed
		return closingMessage, true
	case IntentUnclassified:
		return guidance(s), false
	default:
		// Additional remarks after booking are acknowledged, nothing moves.
		return confirmedAck, false
	}
}

func looksLikeEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

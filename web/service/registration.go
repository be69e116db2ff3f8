package service

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"gift-gap/database/model"
)

type RegState int

const (
	StateIdle RegState = iota
	StateConfirmExisting
	StateAwaitingName
	StateAwaitingWish
	StateAwaitingComment
	StateReadyToSubmit
)

const (
	minNameLen = 2
	minWishLen = 3
)

var (
	ErrNameTooShort    = errors.New("name is too short")
	ErrWishTooShort    = errors.New("wish is too short")
	ErrDraftIncomplete = errors.New("draft is incomplete")
	ErrNoConversation  = errors.New("no active conversation")
	ErrUnexpectedInput = errors.New("unexpected input for current state")
)

// Draft holds the per-user registration answers collected so far.
type Draft struct {
	Name    string
	Wish    string
	Comment string
}

type conversation struct {
	state RegState
	draft Draft
}

var (
	convMu        sync.Mutex
	conversations = make(map[int64]*conversation)
)

type RegistrationService struct {
	participantService ParticipantService
}

// Begin starts a registration conversation for the user. If the user already
// has a stored record the conversation begins in StateConfirmExisting so the
// caller can ask whether to overwrite it.
func (s *RegistrationService) Begin(userId int64) (RegState, error) {
	existing, err := s.participantService.Get(userId)
	if err != nil {
		return StateIdle, err
	}

	convMu.Lock()
	defer convMu.Unlock()

	state := StateAwaitingName
	if existing != nil {
		state = StateConfirmExisting
	}
	conversations[userId] = &conversation{state: state}
	return state, nil
}

// State returns the user's current conversation state, StateIdle when none.
func (s *RegistrationService) State(userId int64) RegState {
	convMu.Lock()
	defer convMu.Unlock()

	conv, ok := conversations[userId]
	if !ok {
		return StateIdle
	}
	return conv.state
}

// Restart discards the draft and moves an existing conversation back to the
// name prompt.
func (s *RegistrationService) Restart(userId int64) RegState {
	convMu.Lock()
	defer convMu.Unlock()

	conversations[userId] = &conversation{state: StateAwaitingName}
	return StateAwaitingName
}

// KeepExisting ends a StateConfirmExisting conversation without touching the
// stored record.
func (s *RegistrationService) KeepExisting(userId int64) {
	convMu.Lock()
	defer convMu.Unlock()
	delete(conversations, userId)
}

// Cancel drops the conversation and its draft. Reports whether a conversation
// was active.
func (s *RegistrationService) Cancel(userId int64) bool {
	convMu.Lock()
	defer convMu.Unlock()

	_, ok := conversations[userId]
	delete(conversations, userId)
	return ok
}

// HandleText feeds one text message into the conversation and returns the
// resulting state. Inputs failing validation leave the state unchanged and
// return a sentinel error so the caller can re-prompt.
func (s *RegistrationService) HandleText(userId int64, text string) (RegState, error) {
	convMu.Lock()
	defer convMu.Unlock()

	conv, ok := conversations[userId]
	if !ok {
		return StateIdle, ErrNoConversation
	}

	text = strings.TrimSpace(text)
	switch conv.state {
	case StateAwaitingName:
		if utf8.RuneCountInString(text) < minNameLen {
			return conv.state, ErrNameTooShort
		}
		conv.draft.Name = text
		conv.state = StateAwaitingWish
	case StateAwaitingWish:
		if utf8.RuneCountInString(text) < minWishLen {
			return conv.state, ErrWishTooShort
		}
		conv.draft.Wish = text
		conv.state = StateAwaitingComment
	case StateAwaitingComment:
		conv.draft.Comment = text
		conv.state = StateReadyToSubmit
	default:
		return conv.state, ErrUnexpectedInput
	}
	return conv.state, nil
}

// SkipComment advances past the optional comment prompt with an empty value.
func (s *RegistrationService) SkipComment(userId int64) (RegState, error) {
	convMu.Lock()
	defer convMu.Unlock()

	conv, ok := conversations[userId]
	if !ok {
		return StateIdle, ErrNoConversation
	}
	if conv.state != StateAwaitingComment {
		return conv.state, ErrUnexpectedInput
	}
	conv.draft.Comment = ""
	conv.state = StateReadyToSubmit
	return conv.state, nil
}

// Draft returns a copy of the user's current draft.
func (s *RegistrationService) Draft(userId int64) (Draft, bool) {
	convMu.Lock()
	defer convMu.Unlock()

	conv, ok := conversations[userId]
	if !ok {
		return Draft{}, false
	}
	return conv.draft, true
}

// Submit persists the completed draft as the user's record, replacing any
// previous one, and ends the conversation.
func (s *RegistrationService) Submit(userId int64, username string) (*model.Participant, error) {
	convMu.Lock()
	conv, ok := conversations[userId]
	if !ok || conv.state != StateReadyToSubmit {
		convMu.Unlock()
		return nil, ErrDraftIncomplete
	}
	draft := conv.draft
	delete(conversations, userId)
	convMu.Unlock()

	if draft.Name == "" || draft.Wish == "" {
		return nil, ErrDraftIncomplete
	}

	participant := &model.Participant{
		Id:       userId,
		Username: username,
		Name:     draft.Name,
		Wish:     draft.Wish,
		Comment:  draft.Comment,
	}
	if err := s.participantService.Put(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

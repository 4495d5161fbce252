package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgQuestNotFound      = "quest not found"
	ErrMsgAlreadyMember      = "already on the roster or waitlist"
	ErrMsgNotMember          = "not on the roster or waitlist"
	ErrMsgQuestClosed        = "quest is closed"
	ErrMsgForbidden          = "only the quest DM or an admin may do that"
	ErrMsgDMCannotJoin       = "the quest DM cannot join their own quest"
	ErrMsgThreadRegistered   = "thread is already registered"
	ErrMsgGuildNotConfigured = "guild is not configured"
	ErrMsgStorageUnavailable = "storage unavailable"
	ErrMsgInvalidInput       = "invalid input"
	ErrMsgRateLimited        = "application rate limit reached"
)

// Common domain errors.
// These are used consistently across all layers; wrap with
// fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context and
// test with errors.Is at the boundary.
var (
	// Lookup errors
	ErrQuestNotFound    = errors.New(ErrMsgQuestNotFound)
	ErrThreadRegistered = errors.New(ErrMsgThreadRegistered)

	// Roster errors - user input, no state change
	ErrAlreadyMember = errors.New(ErrMsgAlreadyMember)
	ErrNotMember     = errors.New(ErrMsgNotMember)
	ErrDMCannotJoin  = errors.New(ErrMsgDMCannotJoin)

	// Lifecycle errors
	ErrQuestClosed = errors.New(ErrMsgQuestClosed)
	ErrForbidden   = errors.New(ErrMsgForbidden)

	// Guild configuration errors
	ErrGuildNotConfigured = errors.New(ErrMsgGuildNotConfigured)

	// Persistence errors - in-memory state is left unchanged when returned
	ErrStorageUnavailable = errors.New(ErrMsgStorageUnavailable)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Rate limiting
	ErrRateLimited = errors.New(ErrMsgRateLimited)
)

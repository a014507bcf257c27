package services

import "errors"

// Корневые ошибки. Конкретные ошибки ниже оборачивают одну из них,
// и handlers выбирают HTTP статус через errors.Is.
var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrValidationFailed     = errors.New("validation failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrConflict             = errors.New("resource state conflict")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnavailable          = errors.New("service is not configured")
)

// kindError - ошибка со своим текстом, которая при errors.Is совпадает с корневой.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	// Не найдено
	ErrChallengeNotFound  = newError(ErrNotFound, "challenge not found")
	ErrMemberNotFound     = newError(ErrNotFound, "member not found")
	ErrSeasonNotFound     = newError(ErrNotFound, "season not found")
	ErrEnrollmentNotFound = newError(ErrNotFound, "enrollment not found")

	// Валидация
	ErrSelfChallenge        = newError(ErrValidationFailed, "challenger and opponent must be different members")
	ErrParticipantInvalid   = newError(ErrValidationFailed, "challenge participant does not exist")
	ErrSeasonInvalid        = newError(ErrValidationFailed, "season does not exist")
	ErrDivisionInvalid      = newError(ErrValidationFailed, "division is not part of the season")
	ErrInvalidStatus        = newError(ErrValidationFailed, "invalid challenge status")
	ErrProposedDateRequired = newError(ErrValidationFailed, "proposed date is required")
	ErrSlotsRequired        = newError(ErrValidationFailed, "at least one slot is required")
	ErrSlotStartRequired    = newError(ErrValidationFailed, "every slot needs a start time")
	ErrSlotEndBeforeStart   = newError(ErrValidationFailed, "slot end must be after start")
	ErrSlotNotFound         = newError(ErrValidationFailed, "slot_not_found")
	ErrInvalidSetCount      = newError(ErrValidationFailed, "between 1 and 3 sets must be reported")
	ErrInvalidSetScore      = newError(ErrValidationFailed, "set scores must be between 0 and 7")
	ErrWinnerRequired       = newError(ErrValidationFailed, "winner is required")
	ErrWinnerNotParticipant = newError(ErrValidationFailed, "winner must be a challenge participant")
	ErrChatMessageInvalid   = newError(ErrValidationFailed, "message must be 1 to 2000 characters")
	ErrNameRequired         = newError(ErrValidationFailed, "name is required")
	ErrSkillRatingRange     = newError(ErrValidationFailed, "tennis rating must be between 1.0 and 7.0")
	ErrAvailabilityInvalid  = newError(ErrValidationFailed, "availability entries need a day 0-6 and HH:MM start before end")
	ErrSeasonDatesInvalid   = newError(ErrValidationFailed, "season start must be before end")
	ErrDivisionsRequired    = newError(ErrValidationFailed, "at least one division is required")
	ErrEmailInvalid         = newError(ErrValidationFailed, "email address is invalid")
	ErrPasswordTooShort     = newError(ErrValidationFailed, "password is too short")
	ErrUnsupportedImageType = newError(ErrValidationFailed, "unsupported image content type")
	ErrBroadcastInvalid     = newError(ErrValidationFailed, "subject and html body are required")

	// Авторизация
	ErrNotParticipant             = newError(ErrForbiddenOperation, "actor is not a participant of this challenge")
	ErrChallengeInvalidTransition = newError(ErrForbiddenOperation, "transition is not allowed from the current state")
	ErrSelfVerification           = newError(ErrForbiddenOperation, "the reporting member cannot verify their own result")
	ErrSlotProposerCannotAccept   = newError(ErrForbiddenOperation, "slots must be accepted by the other participant")
	ErrAdminOnly                  = newError(ErrForbiddenOperation, "only administrators can perform this action")
	ErrNotProfileOwner            = newError(ErrForbiddenOperation, "only the profile owner can perform this action")

	// Конфликты
	ErrEnrollmentConflict = newError(ErrConflict, "member is already enrolled in this season")
	ErrSeasonLocked       = newError(ErrConflict, "season roster is locked")
	ErrUserEmailConflict  = newError(ErrConflict, "email address is already in use")
	ErrMemberUserConflict = newError(ErrConflict, "user already has a member profile")

	// Аутентификация
	ErrInvalidCredentials = newError(ErrAuthenticationFailed, "invalid email or password")

	ErrStorageNotConfigured = newError(ErrUnavailable, "file storage is not configured")
)

package back

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
)

// RuleKind tells apart malformed input from input breaking a business rule.
type RuleKind string

const (
	RuleShape    RuleKind = "shape"
	RuleBusiness RuleKind = "business"
)

// Rules reported by ValidationError.
const (
	RuleSideSize             = "side_size"
	RuleSideArity            = "side_arity"
	RuleInvalidWinner        = "invalid_winner"
	RuleDuplicateParticipant = "duplicate_participant"
	RuleGroupMismatch        = "group_mismatch"
	RuleInvalidGroup         = "invalid_group"
	RuleInvalidKind          = "invalid_kind"
	RuleDuplicateTeam        = "duplicate_team"
	RuleInactiveTeam         = "inactive_team"
	RuleTeamExists           = "team_exists"
	RuleNotEnoughPlayers     = "not_enough_players"
	RuleInvalidImport        = "invalid_import"
)

// ValidationError is returned when the input can't be acted upon, the caller
// has to fix it before trying again.
type ValidationError struct {
	Kind    RuleKind
	Rule    string
	Message string
}

func newShapeError(rule string, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: RuleShape, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func newRuleError(rule string, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: RuleBusiness, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation // nolint:errorlint
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s #%d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound // nolint:errorlint
}

// PersistenceError wraps a storage failure, the transaction it happened in
// has been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence // nolint:errorlint
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

func isRule(err error, rule string) bool {
	var v *ValidationError
	return errors.As(err, &v) && v.Rule == rule
}

// Package modelforge defines the shared types of the scaffold generator:
// the error taxonomy, rule violations, and consistency findings reported
// by the variant and compiler/gen packages.
package modelforge

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the generation pipeline stages.
var (
	// ErrConfiguration is returned when a raw configuration names an
	// unknown axis, omits an axis that cannot be defaulted, or assigns
	// a value outside the axis's legal set.
	ErrConfiguration = errors.New("modelforge: invalid configuration")

	// ErrCompatibility is returned when a complete configuration violates
	// one or more compatibility rules.
	ErrCompatibility = errors.New("modelforge: incompatible configuration")

	// ErrInternal is returned when the static registries disagree with each
	// other, e.g. a value passed axis validation but has no fragment
	// registered. It is never a user mistake.
	ErrInternal = errors.New("modelforge: internal invariant violated")

	// ErrConsistency is returned when rendered artifacts disagree with each
	// other for the chosen configuration.
	ErrConsistency = errors.New("modelforge: inconsistent artifacts")

	// ErrConflict is returned when emission would overwrite existing files
	// and the caller did not request overwrite.
	ErrConflict = errors.New("modelforge: output path conflict")
)

// ConfigurationError reports a problem with a single axis of a raw
// configuration, before any rendering happens.
type ConfigurationError struct {
	Axis    string
	Value   any // nil when the axis had no value
	Message string
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("modelforge: configuration error on axis %q (value: %v): %s", e.Axis, e.Value, e.Message)
	}
	return fmt.Sprintf("modelforge: configuration error on axis %q: %s", e.Axis, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError returns a new ConfigurationError for the given axis.
func NewConfigurationError(axis string, value any, message string) *ConfigurationError {
	return &ConfigurationError{Axis: axis, Value: value, Message: message}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e) || errors.Is(err, ErrConfiguration)
}

// Violation identifies one compatibility rule a configuration failed.
type Violation struct {
	Rule    string // rule identifier
	Message string // human-readable explanation
}

// String returns the violation as "rule: message".
func (v Violation) String() string {
	return v.Rule + ": " + v.Message
}

// CompatibilityError carries the complete set of violated rules for a
// configuration. Validation never truncates to the first violation, so a
// caller can correct the configuration in one pass.
type CompatibilityError struct {
	Violations []Violation
}

// Error returns the error string listing every violation.
func (e *CompatibilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "modelforge: configuration violates %d rule(s):", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for CompatibilityError.
func (e *CompatibilityError) Is(target error) bool {
	return target == ErrCompatibility
}

// Rules returns the identifiers of all violated rules, in reported order.
func (e *CompatibilityError) Rules() []string {
	ids := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		ids[i] = v.Rule
	}
	return ids
}

// NewCompatibilityError returns a CompatibilityError for the given violations,
// or nil if there are none.
func NewCompatibilityError(violations ...Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &CompatibilityError{Violations: violations}
}

// IsCompatibilityError returns true if the error is a CompatibilityError.
func IsCompatibilityError(err error) bool {
	if err == nil {
		return false
	}
	var e *CompatibilityError
	return errors.As(err, &e) || errors.Is(err, ErrCompatibility)
}

// InternalError reports a divergence between the static registries, such as
// a fragment missing for a value the axis registry accepts. Callers should
// treat it as fatal to the process's static data rather than retry.
type InternalError struct {
	Component string // "registry", "store", "composer", ...
	Key       string // the key that exposed the divergence
	Message   string
}

// Error returns the error string.
func (e *InternalError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("modelforge: internal error in %s (key: %s): %s", e.Component, e.Key, e.Message)
	}
	return fmt.Sprintf("modelforge: internal error in %s: %s", e.Component, e.Message)
}

// Is reports whether the target matches the sentinel error for InternalError.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// NewInternalError returns a new InternalError.
func NewInternalError(component, key, message string) *InternalError {
	return &InternalError{Component: component, Key: key, Message: message}
}

// IsInternalError returns true if the error is an InternalError.
func IsInternalError(err error) bool {
	if err == nil {
		return false
	}
	var e *InternalError
	return errors.As(err, &e) || errors.Is(err, ErrInternal)
}

// Finding is one cross-artifact invariant that does not hold in the
// rendered output: which invariant failed, which artifacts disagree, and
// the axis whose chosen value they disagree about.
type Finding struct {
	Invariant string   // "format-symmetry", "server-contract", "port-environment"
	Artifacts []string // names of the artifacts in conflict
	Axis      string   // axis the artifacts disagree about
	Detail    string
}

// String returns the finding in a single line.
func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] on axis %q: %s", f.Invariant, strings.Join(f.Artifacts, ", "), f.Axis, f.Detail)
}

// ConsistencyError carries every consistency finding for a rendered
// artifact set. Any finding fails the whole generation request.
type ConsistencyError struct {
	Findings []Finding
}

// Error returns the error string listing every finding.
func (e *ConsistencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "modelforge: rendered artifacts violate %d invariant(s):", len(e.Findings))
	for _, f := range e.Findings {
		b.WriteString("\n  - ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConsistencyError.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

// NewConsistencyError returns a ConsistencyError for the given findings,
// or nil if there are none.
func NewConsistencyError(findings ...Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return &ConsistencyError{Findings: findings}
}

// IsConsistencyError returns true if the error is a ConsistencyError.
func IsConsistencyError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConsistencyError
	return errors.As(err, &e) || errors.Is(err, ErrConsistency)
}

// ConflictError reports every output path that already exists when emission
// was attempted without overwrite. The caller can recover by choosing a
// different output root or requesting overwrite.
type ConflictError struct {
	Paths []string
}

// Error returns the error string listing every colliding path.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("modelforge: refusing to overwrite existing files: %s", strings.Join(e.Paths, ", "))
}

// Is reports whether the target matches the sentinel error for ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError returns a ConflictError for the given paths, or nil if
// there are none.
func NewConflictError(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return &ConflictError{Paths: paths}
}

// IsConflictError returns true if the error is a ConflictError.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConflictError
	return errors.As(err, &e) || errors.Is(err, ErrConflict)
}

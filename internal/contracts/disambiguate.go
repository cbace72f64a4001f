package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyli-org/explorer/internal/borsh"
)

var ErrAllCandidatesFailed = errors.New("all candidates failed")

// Candidate is one schema probed by Disambiguate.
type Candidate struct {
	Label    string
	Schema   *borsh.Schema
	Envelope Envelope
}

// Attempt records why a candidate was rejected.
type Attempt struct {
	Label string
	Err   error
}

// AllCandidatesFailedError aggregates every rejected candidate in probe order.
type AllCandidatesFailedError struct {
	Attempts []Attempt
}

func (e *AllCandidatesFailedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Label, a.Err)
	}
	return fmt.Sprintf("all %d candidates failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

func (e *AllCandidatesFailedError) Is(target error) bool { return target == ErrAllCandidatesFailed }

func (e *AllCandidatesFailedError) Unwrap() []error {
	out := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		out[i] = a.Err
	}
	return out
}

// Disambiguate tries candidates strictly in order with a full-buffer decode
// and returns the first that consumes buf exactly.
func Disambiguate(buf []byte, candidates []Candidate) (string, borsh.Value, error) {
	attempts := make([]Attempt, 0, len(candidates))
	for _, c := range candidates {
		decoded, err := borsh.Unmarshal(Wrap(c.Envelope, c.Schema), buf)
		if err == nil {
			var parts unwrapped
			parts, err = unwrap(c.Envelope, decoded)
			if err == nil {
				return c.Label, parts.action, nil
			}
		}
		attempts = append(attempts, Attempt{Label: c.Label, Err: err})
	}
	return "", borsh.Value{}, &AllCandidatesFailedError{Attempts: attempts}
}

// Package merge implements the duplicate-id collision policies applied
// when a newly parsed feature's synthesised id already exists in the
// store: error, warning, merge, replace and create_unique.
package merge

import (
	"fmt"

	"github.com/gffarchive/gffarchive/internal/ident"
	"github.com/gffarchive/gffarchive/internal/model"
)

// Policy names a collision resolution strategy.
type Policy string

const (
	PolicyError        Policy = "error"
	PolicyWarning      Policy = "warning"
	PolicyMerge        Policy = "merge"
	PolicyReplace      Policy = "replace"
	PolicyCreateUnique Policy = "create_unique"
)

// DuplicateIDError is returned by PolicyError: the id collided and no
// merge was attempted.
type DuplicateIDError struct {
	ID              string
	ExistingLine    int
	IncomingLine    int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %q: first seen at line %d, again at line %d", e.ID, e.ExistingLine, e.IncomingLine)
}

// MergeConflictError is returned by PolicyMerge when the two records'
// core columns disagree, so no attribute union can be attempted.
type MergeConflictError struct {
	ID            string
	Field         string
	ExistingLine  int
	IncomingLine  int
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("cannot merge id %q: %s differs between line %d and line %d", e.ID, e.Field, e.ExistingLine, e.IncomingLine)
}

// Outcome is the result of resolving one collision.
type Outcome struct {
	// Result is the record that should end up stored under ID. For
	// PolicyCreateUnique this is the incoming record under a new id;
	// for PolicyWarning the incoming record is dropped and Result is nil.
	Result *Feature
	// Warning is non-nil when the policy handled the collision by
	// recording a warning rather than failing the ingest.
	Warning error
}

// Feature is a local alias avoiding a stutter in Outcome's doc comment.
type Feature = model.Feature

// Resolve applies policy to an existing/incoming collision on the same
// id. counters backs create_unique's suffix allocation, keyed on the
// original (colliding) id so repeated collisions produce id_1, id_2, ...
func Resolve(policy Policy, existing, incoming *Feature, counters *ident.Counters) (*Outcome, error) {
	switch policy {
	case PolicyError, "":
		return nil, &DuplicateIDError{
			ID:           existing.ID,
			ExistingLine: existing.LineNumber,
			IncomingLine: incoming.LineNumber,
		}

	case PolicyWarning:
		return &Outcome{
			Warning: &DuplicateIDError{
				ID:           existing.ID,
				ExistingLine: existing.LineNumber,
				IncomingLine: incoming.LineNumber,
			},
		}, nil

	case PolicyReplace:
		replaced := incoming.Clone()
		replaced.ID = existing.ID
		return &Outcome{Result: replaced}, nil

	case PolicyCreateUnique:
		newID := counters.Increment(existing.ID)
		unique := incoming.Clone()
		unique.ID = newID
		return &Outcome{Result: unique}, nil

	case PolicyMerge:
		return resolveMerge(existing, incoming)

	default:
		return nil, fmt.Errorf("merge: unknown policy %q", policy)
	}
}

// resolveMerge unions attributes when every core column agrees, per
// gffutils' _do_merge: existing values first, then incoming values not
// already present, duplicates dropped.
func resolveMerge(existing, incoming *Feature) (*Outcome, error) {
	if field, ok := existing.SameCoreFields(incoming); !ok {
		return nil, &MergeConflictError{
			ID:           existing.ID,
			Field:        field,
			ExistingLine: existing.LineNumber,
			IncomingLine: incoming.LineNumber,
		}
	}

	merged := existing.Clone()
	merged.Attributes.Union(incoming.Attributes)
	return &Outcome{Result: merged}, nil
}

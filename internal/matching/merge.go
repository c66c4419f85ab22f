package matching

import "github.com/huskygraph/huskygraph-backend/internal/types"

const unknownSource = "unknown"

// DetectConflicts compares an existing record against a candidate and returns
// the fields where two populated values disagree. Empty candidate values are
// ignored; empty existing values are the gap-fill case, not a conflict.
func DetectConflicts(existing *types.Dog, candidate *types.CandidateRecord, source string) (bool, types.ConflictMap) {
	conflicts := types.ConflictMap{}
	hasConflicts := false

	for _, field := range conflictFields {
		newValue := field.incoming(candidate)
		if isEmpty(newValue) {
			continue
		}

		existingValue := field.current(existing)
		if isEmpty(existingValue) {
			continue
		}

		if valuesEqual(existingValue, newValue) {
			continue
		}

		existingSource := existing.Source
		if existingSource == "" {
			existingSource = unknownSource
		}

		conflicts[field.name] = map[string]any{
			existingSource: existingValue,
			source:         newValue,
		}
		hasConflicts = true
	}

	return hasConflicts, conflicts
}

// Merge applies a candidate to an existing record without destroying data:
// empty fields are filled from the candidate, populated fields are never
// overwritten, and disagreements are accumulated on the record's conflict
// map. Mutation is in-memory only; persistence is the caller's concern.
// The returned map holds the freshly detected conflicts, not the accumulated
// ones.
func Merge(existing *types.Dog, candidate *types.CandidateRecord, source string) (bool, types.ConflictMap) {
	hasChanges := false
	hasConflicts, conflicts := DetectConflicts(existing, candidate, source)

	for _, field := range updatableFields {
		newValue := field.incoming(candidate)
		if isEmpty(newValue) {
			continue
		}
		if !isEmpty(field.current(existing)) {
			continue
		}
		// assign cannot fail here: the value came from the candidate's own
		// typed field.
		_ = field.assign(existing, newValue)
		hasChanges = true
	}

	if hasConflicts {
		existing.HasConflicts = true
		existing.Conflicts.Absorb(conflicts)
		hasChanges = true
	}

	return hasChanges, conflicts
}

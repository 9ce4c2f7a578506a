/*
errors.go - Sentinel errors for the ledger package

ERROR CATEGORIES (matching the system's taxonomy):
  - Malformed input rows are never errors here: they are skipped and
    logged inside the apply operations.
  - Unresolvable references (unmatched item, missing recipe, missing
    ledger entry for a deduction) surface in result summaries, not as
    returned errors.
  - The errors below are caller-input rejections and persistence
    failures - the only cases an Engine method returns non-nil for.
*/
package ledger

import "errors"

var (
	// ErrItemNotFound is returned by SetQuantity when the item code has no
	// existing ledger entry. Direct overwrites never create entries.
	ErrItemNotFound = errors.New("item not found in inventory")

	// ErrSnapshotSave wraps persistence failures after a successful
	// mutation. In-memory state is intact when this is returned.
	ErrSnapshotSave = errors.New("snapshot save failed")
)

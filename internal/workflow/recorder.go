package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/manifest"
)

// Notifier posts a human-visible note about a newly recorded finding to the
// external issue/PR system.
type Notifier interface {
	Notify(ctx context.Context, f finding.Finding) error
}

// Partial-success sentinels for the two-sided record operation. The side that
// succeeded is never rolled back.
var (
	// ErrStoreOnly means the finding was stored locally but the remote
	// notification failed.
	ErrStoreOnly = errors.New("finding recorded locally but notification failed")
	// ErrNotifyOnly means the remote notification succeeded but the local
	// write failed.
	ErrNotifyOnly = errors.New("finding notified but local recording failed")
)

// DoubleFailure means both sides of record-and-notify failed. The finding's
// full content is echoed back so a human can recreate it; no finding is ever
// silently dropped.
type DoubleFailure struct {
	StoreErr  error
	NotifyErr error
	Finding   finding.Finding
}

func (e *DoubleFailure) Error() string {
	echo, _ := json.MarshalIndent(e.Finding, "", "  ")
	return fmt.Sprintf("recording failed on both sides (store: %v; notify: %v); finding content:\n%s",
		e.StoreErr, e.NotifyErr, echo)
}

// RecordResult reports what each side of a record operation did.
type RecordResult struct {
	UnitPath string
	Notified bool
}

// Recorder performs the two-sided "record and notify" operation: a local
// manifest write plus a remote notification, attempted independently.
type Recorder struct {
	Store    *manifest.Store
	Notifier Notifier // nil disables notification
}

// Record validates the finding and attempts both sides. Validation failures
// surface before any side effect. One-sided failures return the matching
// partial-success sentinel alongside the result for the side that worked;
// only a simultaneous failure of both sides is a full failure.
func (r *Recorder) Record(ctx context.Context, f finding.Finding) (RecordResult, error) {
	if err := finding.Validate(f); err != nil {
		return RecordResult{}, err
	}

	var result RecordResult
	unitPath, storeErr := r.Store.Write(f)
	result.UnitPath = unitPath

	var notifyErr error
	if r.Notifier != nil {
		notifyErr = r.Notifier.Notify(ctx, f)
		result.Notified = notifyErr == nil
	}

	switch {
	case storeErr == nil && notifyErr == nil:
		return result, nil
	case storeErr == nil:
		return result, fmt.Errorf("%w: %v", ErrStoreOnly, notifyErr)
	case notifyErr == nil && r.Notifier != nil:
		return result, fmt.Errorf("%w: %v", ErrNotifyOnly, storeErr)
	case r.Notifier == nil:
		return result, storeErr
	default:
		return result, &DoubleFailure{StoreErr: storeErr, NotifyErr: notifyErr, Finding: f}
	}
}

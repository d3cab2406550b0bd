package domain

import "context"

// OutcomeStatus is the result of converting one mod
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// OutcomeRecord describes what happened to one source mod during a conversion
type OutcomeRecord struct {
	ModName string        `json:"modName"`
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
}

// ConversionResult summarizes a full conversion run. Details are in source mod order.
type ConversionResult struct {
	ModpackID string          `json:"modpackId"`
	Success   int             `json:"success"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Details   []OutcomeRecord `json:"details"`
}

// Total returns the number of mods the run processed
func (r *ConversionResult) Total() int {
	return r.Success + r.Failed + r.Skipped
}

// FailureBucket groups failed outcomes by likely cause
type FailureBucket string

const (
	BucketWrongLoader  FailureBucket = "Wrong Loader"
	BucketWrongVersion FailureBucket = "Wrong Version"
	BucketNotAvailable FailureBucket = "Not Available"
	BucketOther        FailureBucket = "Other"
)

// ConvertProgressFunc is called after each mod is resolved with (completed count, total, outcome).
type ConvertProgressFunc func(done, total int, rec OutcomeRecord)

type convertProgressKey struct{}

// ConvertProgressContextKey is the context key for ConvertProgressFunc. Attach with context.WithValue.
var ConvertProgressContextKey = &convertProgressKey{}

// ConvertProgressFromContext returns the progress callback attached to ctx, if any
func ConvertProgressFromContext(ctx context.Context) ConvertProgressFunc {
	fn, _ := ctx.Value(ConvertProgressContextKey).(ConvertProgressFunc)
	return fn
}

package core

import (
	"strings"

	"mpm/internal/domain"
)

// ClassifyFailure buckets a failed outcome's reason by likely cause.
// It keys on the wording produced by diagnose and noFilesReason; keep the two in sync.
// The resource pack and shader reason "Not available for {v}. Available: ..." lands
// in Wrong Version, since it lists the versions the project does support.
func ClassifyFailure(reason string) domain.FailureBucket {
	r := strings.ToLower(reason)
	switch {
	case strings.Contains(r, "not for") || strings.Contains(r, "requires"):
		return domain.BucketWrongLoader
	case strings.Contains(r, "available for"):
		// Covers "Version x available for" and "{loader} available for: ..."
		return domain.BucketWrongVersion
	case strings.Contains(r, "no files found") || strings.Contains(r, "no compatible"):
		return domain.BucketNotAvailable
	default:
		return domain.BucketOther
	}
}

// FailureGroup is a set of failed outcomes sharing a bucket
type FailureGroup struct {
	Bucket   domain.FailureBucket
	Outcomes []domain.OutcomeRecord
}

// GroupFailures groups the failed outcomes of a run by bucket, buckets in first-seen order
func GroupFailures(details []domain.OutcomeRecord) []FailureGroup {
	var groups []FailureGroup
	index := make(map[domain.FailureBucket]int)

	for _, rec := range details {
		if rec.Status != domain.OutcomeFailed {
			continue
		}
		bucket := ClassifyFailure(rec.Reason)
		i, ok := index[bucket]
		if !ok {
			i = len(groups)
			index[bucket] = i
			groups = append(groups, FailureGroup{Bucket: bucket})
		}
		groups[i].Outcomes = append(groups[i].Outcomes, rec)
	}
	return groups
}

package core_test

import (
	"testing"

	"mpm/internal/core"
	"mpm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		reason string
		want   domain.FailureBucket
	}{
		{"Version 1.20.1 available but not for fabric", domain.BucketWrongLoader},
		{"Requires Forge", domain.BucketWrongLoader},
		{"fabric available for: 1.19.2, 1.19.3", domain.BucketWrongVersion},
		{"fabric available for: unknown versions", domain.BucketWrongVersion},
		{"Not available for 1.21. Available: 1.20.1", domain.BucketWrongVersion},
		{"No files found for 1.20.1 fabric", domain.BucketNotAvailable},
		{"No compatible file for 1.20.1 fabric", domain.BucketNotAvailable},
		{"Failed to add to library", domain.BucketOther},
		{"curseforge API error (status 500)", domain.BucketOther},
		{"", domain.BucketOther},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ClassifyFailure(tt.reason))
		})
	}
}

func TestGroupFailures(t *testing.T) {
	details := []domain.OutcomeRecord{
		{ModName: "A", Status: domain.OutcomeSuccess},
		{ModName: "B", Status: domain.OutcomeFailed, Reason: "No files found for 1.21 fabric"},
		{ModName: "C", Status: domain.OutcomeSkipped, Reason: "Not from CurseForge"},
		{ModName: "D", Status: domain.OutcomeFailed, Reason: "Version 1.21 available but not for fabric"},
		{ModName: "E", Status: domain.OutcomeFailed, Reason: "No compatible file for 1.21 fabric"},
	}

	groups := core.GroupFailures(details)
	require.Len(t, groups, 2)

	assert.Equal(t, domain.BucketNotAvailable, groups[0].Bucket)
	require.Len(t, groups[0].Outcomes, 2)
	assert.Equal(t, "B", groups[0].Outcomes[0].ModName)
	assert.Equal(t, "E", groups[0].Outcomes[1].ModName)

	assert.Equal(t, domain.BucketWrongLoader, groups[1].Bucket)
	assert.Equal(t, "D", groups[1].Outcomes[0].ModName)
}

func TestGroupFailures_NoFailures(t *testing.T) {
	assert.Empty(t, core.GroupFailures([]domain.OutcomeRecord{{ModName: "A", Status: domain.OutcomeSuccess}}))
	assert.Empty(t, core.GroupFailures(nil))
}

package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDispatchPayloadRoundTrip(t *testing.T) {
	payload := OrderDispatchJobPayload{
		Channel:         "naver",
		CommerceOrderID: "2026010112345",
		PaymentID:       42,
	}

	decoded, err := OrderDispatchJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

func TestAiPhotoPayloadRoundTrip(t *testing.T) {
	payload := AiPhotoJobPayload{
		AiPhotoID:  7,
		PhotoUUID:  "0d9e6f7a-1b2c-4d3e-8f90-a1b2c3d4e5f6",
		UserID:     3,
		Style:      "hanbok",
		SourcePath: "/uploads/ai/source.jpg",
	}

	decoded, err := AiPhotoJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{
		ID:         "test-job",
		Type:       JobTypeOrderDispatch,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
		MaxRetries: 2,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("provider returned status 500")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsFailed("provider returned status 500")
	assert.Equal(t, 2, job.RetryCount)
	assert.False(t, job.IsRetryable(), "retries exhausted at max_retries")
}

func TestJobCompletedClearsError(t *testing.T) {
	job := &Job{ID: "test-job", Type: JobTypeAiPhoto, Status: JobStatusProcessing, ErrorMsg: "transient"}

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
}

package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeOrderDispatch JobType = "order_dispatch"
	JobTypeAiPhoto       JobType = "ai_photo"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// OrderDispatchJobPayload contains the payload for post-activation order
// fulfillment. The grant is already durable when this job is enqueued.
type OrderDispatchJobPayload struct {
	Channel         string `json:"channel"`
	CommerceOrderID string `json:"commerce_order_id"`
	PaymentID       uint   `json:"payment_id"`
}

// ToMap converts the payload to a map for storage
func (p OrderDispatchJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"channel":           p.Channel,
		"commerce_order_id": p.CommerceOrderID,
		"payment_id":        p.PaymentID,
	}
}

// FromMap creates a payload from a map
func OrderDispatchJobPayloadFromMap(data map[string]interface{}) (*OrderDispatchJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OrderDispatchJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// AiPhotoJobPayload contains the payload for AI photo generation jobs
type AiPhotoJobPayload struct {
	AiPhotoID  uint   `json:"ai_photo_id"`
	PhotoUUID  string `json:"photo_uuid"`
	UserID     uint   `json:"user_id"`
	Style      string `json:"style"`
	SourcePath string `json:"source_path"`
}

// ToMap converts the payload to a map for storage
func (p AiPhotoJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"ai_photo_id": p.AiPhotoID,
		"photo_uuid":  p.PhotoUUID,
		"user_id":     p.UserID,
		"style":       p.Style,
		"source_path": p.SourcePath,
	}
}

// FromMap creates a payload from a map
func AiPhotoJobPayloadFromMap(data map[string]interface{}) (*AiPhotoJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload AiPhotoJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

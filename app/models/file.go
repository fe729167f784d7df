package models

import "time"

// File is attachment metadata. The blob itself lives in external object
// storage; deleting the row does not touch the blob. The five reference
// columns form a soft union, exclusivity is not enforced.
type File struct {
	ID               string    `json:"id"`
	CaseID           *string   `json:"case_id"`
	ProtocolStepID   *string   `json:"protocol_step_id"`
	SessionID        *string   `json:"session_id"`
	EvaluationID     *string   `json:"evaluation_id"`
	ActionPlanItemID *string   `json:"action_plan_item_id"`
	UploadedBy       *string   `json:"uploaded_by"`
	FileName         string    `json:"file_name"`
	FileType         *string   `json:"file_type"`
	FileSize         *int64    `json:"file_size"`
	FileURL          *string   `json:"file_url"`
	StoragePath      *string   `json:"storage_path"`
	Description      *string   `json:"description"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Uploader *UserRef `json:"uploader,omitempty"`
}

// FileListItem is the flattened row for the files list.
type FileListItem struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	FileURL      *string   `json:"file_url"`
	FileType     *string   `json:"file_type"`
	FileSize     *int64    `json:"file_size"`
	CaseID       *string   `json:"case_id"`
	SessionID    *string   `json:"session_id"`
	UploadedBy   *string   `json:"uploaded_by"`
	UploaderName *string   `json:"uploader_name"`
	CreatedAt    time.Time `json:"created_at"`
}

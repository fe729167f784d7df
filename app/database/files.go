package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"

	"github.com/lib/pq"
)

// FileFilters represents filtering and pagination options for file metadata.
type FileFilters struct {
	CaseID           string
	ProtocolStepID   string
	SessionID        string
	EvaluationID     string
	ActionPlanItemID string
	UploadedBy       string
	FileType         string
	Limit            int
	Offset           int
}

// CreateFileInput carries the accepted fields for registering an uploaded
// file. The blob lives in external object storage; only metadata is stored.
type CreateFileInput struct {
	CaseID           *string  `json:"case_id"`
	ProtocolStepID   *string  `json:"protocol_step_id"`
	SessionID        *string  `json:"session_id"`
	EvaluationID     *string  `json:"evaluation_id"`
	ActionPlanItemID *string  `json:"action_plan_item_id"`
	FileName         string   `json:"file_name"`
	FileType         *string  `json:"file_type"`
	FileSize         *int64   `json:"file_size"`
	FileURL          *string  `json:"file_url"`
	StoragePath      *string  `json:"storage_path"`
	Description      *string  `json:"description"`
	Tags             []string `json:"tags"`
	UploadedBy       string   `json:"-"`
}

// DeletedFile is returned when a file record is removed so callers can
// clean up the blob in object storage.
type DeletedFile struct {
	ID      string  `json:"id"`
	FileURL *string `json:"file_url"`
}

const fileColumns = `f.id, f.case_id, f.protocol_step_id, f.session_id, f.evaluation_id,
	f.action_plan_item_id, f.uploaded_by, f.file_name, f.file_type, f.file_size,
	f.file_url, f.storage_path, f.description, f.tags, f.created_at, f.updated_at`

var fileReturning = strings.ReplaceAll(fileColumns, "f.", "")

func scanFile(row *sql.Row) (*models.File, error) {
	file := &models.File{}
	var tags pq.StringArray
	err := row.Scan(
		&file.ID, &file.CaseID, &file.ProtocolStepID, &file.SessionID, &file.EvaluationID,
		&file.ActionPlanItemID, &file.UploadedBy, &file.FileName, &file.FileType, &file.FileSize,
		&file.FileURL, &file.StoragePath, &file.Description, &tags, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	file.Tags = tags
	return file, nil
}

// GetFiles returns the filtered file metadata list plus the exact total
// count, newest first.
func GetFiles(db *sql.DB, filters FileFilters) ([]models.FileListItem, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.CaseID != "" {
		conditions = append(conditions, "f.case_id = "+arg(filters.CaseID))
	}
	if filters.ProtocolStepID != "" {
		conditions = append(conditions, "f.protocol_step_id = "+arg(filters.ProtocolStepID))
	}
	if filters.SessionID != "" {
		conditions = append(conditions, "f.session_id = "+arg(filters.SessionID))
	}
	if filters.EvaluationID != "" {
		conditions = append(conditions, "f.evaluation_id = "+arg(filters.EvaluationID))
	}
	if filters.ActionPlanItemID != "" {
		conditions = append(conditions, "f.action_plan_item_id = "+arg(filters.ActionPlanItemID))
	}
	if filters.UploadedBy != "" {
		conditions = append(conditions, "f.uploaded_by = "+arg(filters.UploadedBy))
	}
	if filters.FileType != "" {
		conditions = append(conditions, "f.file_type = "+arg(filters.FileType))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM files f %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT f.id, f.file_name, f.file_url, f.file_type, f.file_size,
			   f.case_id, f.session_id, f.uploaded_by, f.created_at,
			   u.first_name, u.last_name, u.email
		FROM files f
		LEFT JOIN users u ON u.id = f.uploaded_by
		%s
		ORDER BY f.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.FileListItem{}
	for rows.Next() {
		var item models.FileListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.FileName, &item.FileURL, &item.FileType, &item.FileSize,
			&item.CaseID, &item.SessionID, &item.UploadedBy, &item.CreatedAt,
			&first, &last, &email,
		); err != nil {
			return nil, 0, err
		}
		item.UploaderName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetFileByID returns a single file record with the uploader expanded.
func GetFileByID(db *sql.DB, fileID string) (*models.File, error) {
	query := `
		SELECT ` + fileColumns + `,
			   u.id, u.email, u.first_name, u.last_name, u.sss_position
		FROM files f
		LEFT JOIN users u ON u.id = f.uploaded_by
		WHERE f.id = $1`

	file := &models.File{}
	var tags pq.StringArray
	var uID, uEmail, uFirst, uLast, uPosition sql.NullString
	err := db.QueryRow(query, fileID).Scan(
		&file.ID, &file.CaseID, &file.ProtocolStepID, &file.SessionID, &file.EvaluationID,
		&file.ActionPlanItemID, &file.UploadedBy, &file.FileName, &file.FileType, &file.FileSize,
		&file.FileURL, &file.StoragePath, &file.Description, &tags, &file.CreatedAt, &file.UpdatedAt,
		&uID, &uEmail, &uFirst, &uLast, &uPosition,
	)
	if err != nil {
		return nil, err
	}
	file.Tags = tags
	file.Uploader = userRef(uID, uEmail, uFirst, uLast, uPosition)
	return file, nil
}

// CreateFile registers uploaded-file metadata.
func CreateFile(db *sql.DB, input CreateFileInput) (*models.File, error) {
	query := `
		INSERT INTO files (case_id, protocol_step_id, session_id, evaluation_id,
			action_plan_item_id, uploaded_by, file_name, file_type, file_size,
			file_url, storage_path, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + fileReturning

	return scanFile(db.QueryRow(query,
		input.CaseID, input.ProtocolStepID, input.SessionID, input.EvaluationID,
		input.ActionPlanItemID, input.UploadedBy, input.FileName, input.FileType,
		input.FileSize, input.FileURL, input.StoragePath, input.Description,
		pq.Array(input.Tags),
	))
}

// fileUpdateColumns whitelists the columns a PATCH may touch.
var fileUpdateColumns = map[string]bool{
	"file_name":   true,
	"description": true,
	"tags":        true,
}

// UpdateFile applies a partial update to file metadata.
func UpdateFile(db *sql.DB, fileID string, fields map[string]interface{}) (*models.File, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !fileUpdateColumns[column] {
			continue
		}
		if list, ok := value.([]interface{}); ok {
			value = pq.Array(toStringSlice(list))
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	if len(setClauses) == 0 {
		return nil, ErrNoUpdatableFields
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, fileID)

	query := fmt.Sprintf(`UPDATE files SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, fileReturning)
	return scanFile(db.QueryRow(query, args...))
}

// DeleteFile removes a file record and returns the id and URL so callers
// can clean up the stored blob. The blob itself is never touched here.
func DeleteFile(db *sql.DB, fileID string) (*DeletedFile, error) {
	deleted := &DeletedFile{}
	err := db.QueryRow(`DELETE FROM files WHERE id = $1 RETURNING id, file_url`, fileID).
		Scan(&deleted.ID, &deleted.FileURL)
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// FileExists reports whether a file record exists.
func FileExists(db *sql.DB, fileID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM files WHERE id = $1`, fileID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

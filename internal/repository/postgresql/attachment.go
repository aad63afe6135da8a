package postgresql

import (
	"context"

	"github.com/gestion-conges/leave-backend-go/internal/domain/attachment"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attachmentRepositoryImpl struct {
	db *database.DB
}

func NewAttachmentRepository(db *database.DB) attachment.AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

const attachmentColumns = `
	id, request_id, file_name, file_path, file_type, file_size,
	status, comment, uploader_id, validator_id, validated_at,
	created_at, updated_at
`

func scanAttachment(row rowScanner) (attachment.Attachment, error) {
	var a attachment.Attachment
	err := row.Scan(
		&a.ID, &a.RequestID, &a.FileName, &a.FilePath, &a.FileType, &a.FileSize,
		&a.Status, &a.Comment, &a.UploaderID, &a.ValidatorID, &a.ValidatedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *attachmentRepositoryImpl) Create(ctx context.Context, a attachment.Attachment) (attachment.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attachments (
			id, request_id, file_name, file_path, file_type, file_size,
			status, uploader_id, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.RequestID, a.FileName, a.FilePath, a.FileType, a.FileSize,
		a.Status, a.UploaderID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attachment.Attachment{}, err
	}

	return a, nil
}

func (r *attachmentRepositoryImpl) GetByID(ctx context.Context, id string) (attachment.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE id = $1
	`

	a, err := scanAttachment(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attachment.Attachment{}, attachment.ErrAttachmentNotFound
		}
		return attachment.Attachment{}, err
	}

	return a, nil
}

func (r *attachmentRepositoryImpl) ListByRequestID(ctx context.Context, requestID string) ([]attachment.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE request_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []attachment.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *attachmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status attachment.Status, comment *string, validatorID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attachments
		SET status = $1, comment = $2, validator_id = $3, validated_at = NOW(), updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, status, comment, validatorID, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attachment.ErrAttachmentNotFound
		}
		return err
	}
	return nil
}

func (r *attachmentRepositoryImpl) CountPendingByRequestID(ctx context.Context, requestID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attachments
		WHERE request_id = $1 AND status = 'pending'
	`

	var count int
	err := q.QueryRow(ctx, query, requestID).Scan(&count)

	return count, err
}

func (r *attachmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM attachments
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return attachment.ErrAttachmentNotFound
	}
	return nil
}

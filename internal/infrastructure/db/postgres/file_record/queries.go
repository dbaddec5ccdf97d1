package file_record

const (
	InsertFile = `
		INSERT INTO files (id, owner_id, original_name, display_name, storage_key, mime_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, owner_id, original_name, display_name, storage_key, mime_type, size_bytes, created_at
	`
	SelectFileByID = `
		SELECT id, owner_id, original_name, display_name, storage_key, mime_type, size_bytes, created_at
		FROM files
		WHERE id = $1
	`
	SelectFilesByOwner = `
		SELECT id, owner_id, original_name, display_name, storage_key, mime_type, size_bytes, created_at
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	UpdateDisplayName = `
		UPDATE files
		SET display_name = $2
		WHERE id = $1
		RETURNING id, owner_id, original_name, display_name, storage_key, mime_type, size_bytes, created_at
	`
	DeleteFile = `
		DELETE FROM files
		WHERE id = $1
	`
)

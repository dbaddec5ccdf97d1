package sqlite

import (
	"time"

	"github.com/google/uuid"

	"member-portal-api/internal/domain/file"
	"member-portal-api/internal/domain/member"
)

type Member struct {
	UUID         string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null;size:320"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null;default:''"`
	Role         string `gorm:"not null;default:user;size:32"`
	CreatedAt    time.Time
}

func (Member) TableName() string {
	return "members"
}

// FileRecord mirrors the postgres files table.
type FileRecord struct {
	ID           string    `gorm:"primaryKey;size:36"`
	OwnerID      string    `gorm:"index:idx_files_owner_created,priority:1;not null;size:36"`
	OriginalName string    `gorm:"not null"`
	DisplayName  string    `gorm:"not null;size:255"`
	StorageKey   string    `gorm:"uniqueIndex;not null"`
	MimeType     string    `gorm:"not null;default:''"`
	SizeBytes    int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index:idx_files_owner_created,priority:2,sort:desc"`
}

func (FileRecord) TableName() string {
	return "files"
}

func memberFromModel(m *Member) (*member.Member, error) {
	id, err := uuid.Parse(m.UUID)
	if err != nil {
		return nil, err
	}
	return &member.Member{
		UUID:         id,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func recordToModel(r *file.Record) *FileRecord {
	return &FileRecord{
		ID:           r.ID.String(),
		OwnerID:      r.OwnerID.String(),
		OriginalName: r.OriginalName,
		DisplayName:  r.DisplayName,
		StorageKey:   r.StorageKey,
		MimeType:     r.MimeType,
		SizeBytes:    r.SizeBytes,
		CreatedAt:    r.CreatedAt,
	}
}

func recordFromModel(m *FileRecord) (*file.Record, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(m.OwnerID)
	if err != nil {
		return nil, err
	}
	return &file.Record{
		ID:           id,
		OwnerID:      owner,
		OriginalName: m.OriginalName,
		DisplayName:  m.DisplayName,
		StorageKey:   m.StorageKey,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		CreatedAt:    m.CreatedAt.UTC(),
	}, nil
}

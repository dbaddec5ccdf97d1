package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"member-portal-api/internal/domain/member"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) member.Repository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) FetchByEmail(ctx context.Context, email string) (*member.Member, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *MemberRepository) FetchByID(ctx context.Context, id member.UUID) (*member.Member, error) {
	return r.first(ctx, "uuid = ?", id.String())
}

func (r *MemberRepository) Create(ctx context.Context, req member.Member) (*member.Member, error) {
	m := &Member{
		UUID:         uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: req.PasswordHash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if m.Role == "" {
		m.Role = member.RoleUser
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, member.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return memberFromModel(m)
}

func (r *MemberRepository) first(ctx context.Context, query string, arg any) (*member.Member, error) {
	var m Member
	err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return memberFromModel(&m)
}

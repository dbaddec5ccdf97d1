package member

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"member-portal-api/internal/domain/member"
	"member-portal-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) member.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchByEmail(ctx context.Context, email string) (*member.Member, error) {
	return r.fetchOne(ctx, SelectMemberByEmail, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) FetchByID(ctx context.Context, uuid member.UUID) (*member.Member, error) {
	return r.fetchOne(ctx, SelectMemberByID, uuid)
}

func (r *Repository) Create(ctx context.Context, req member.Member) (*member.Member, error) {
	role := req.Role
	if role == "" {
		role = member.RoleUser
	}

	m := new(Member)
	err := r.db.QueryRow(
		ctx,
		InsertMember,
		strings.ToLower(strings.TrimSpace(req.Email)), req.PasswordHash, req.Name, role,
	).Scan(
		&m.UUID,
		&m.Email,
		&m.PasswordHash,
		&m.Name,
		&m.Role,

		&m.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, member.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(m), nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*member.Member, error) {
	m := new(Member)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&m.UUID,
		&m.Email,
		&m.PasswordHash,
		&m.Name,
		&m.Role,

		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m), nil
}

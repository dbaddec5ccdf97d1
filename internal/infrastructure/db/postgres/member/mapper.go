package member

import (
	domain "member-portal-api/internal/domain/member"
)

func fromDBModel(model *Member) *domain.Member {
	var m = &domain.Member{
		UUID:         model.UUID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Name:         model.Name,
		Role:         model.Role,

		CreatedAt: model.CreatedAt,
	}

	return m
}

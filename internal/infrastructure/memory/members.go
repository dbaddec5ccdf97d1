package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"member-portal-api/internal/domain/member"
)

type Members struct {
	mu      sync.RWMutex
	byID    map[member.UUID]member.Member
	FetchFn func(email string) error
}

var _ member.Repository = (*Members)(nil)

func NewMembers() *Members {
	return &Members{byID: make(map[member.UUID]member.Member)}
}

func (s *Members) FetchByEmail(_ context.Context, email string) (*member.Member, error) {
	if s.FetchFn != nil {
		if err := s.FetchFn(email); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.byID {
		if strings.EqualFold(m.Email, email) {
			out := m
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Members) FetchByID(_ context.Context, id member.UUID) (*member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Members) Create(_ context.Context, req member.Member) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.byID {
		if strings.EqualFold(m.Email, req.Email) {
			return nil, member.ErrEmailAlreadyExists
		}
	}
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}
	if req.Role == "" {
		req.Role = member.RoleUser
	}
	req.Email = strings.ToLower(req.Email)
	req.CreatedAt = time.Now().UTC()
	s.byID[req.UUID] = req

	out := req
	return &out, nil
}

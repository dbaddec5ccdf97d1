package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"member-portal-api/internal/domain/file"
)

type FileRecords struct {
	mu   sync.RWMutex
	recs map[file.ID]file.Record

	InsertErr func(r *file.Record) error
	DeleteErr func(id file.ID) error
	GetErr    func(id file.ID) error
}

var _ file.Repository = (*FileRecords)(nil)

func NewFileRecords() *FileRecords {
	return &FileRecords{recs: make(map[file.ID]file.Record)}
}

func (s *FileRecords) Insert(_ context.Context, req *file.Record) (*file.Record, error) {
	if s.InsertErr != nil {
		if err := s.InsertErr(req); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.recs {
		if r.StorageKey == req.StorageKey {
			return nil, fmt.Errorf("duplicate storage key %s", req.StorageKey)
		}
	}
	rec := *req
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.recs[rec.ID] = rec

	out := rec
	return &out, nil
}

func (s *FileRecords) Get(_ context.Context, id file.ID) (*file.Record, error) {
	if s.GetErr != nil {
		if err := s.GetErr(id); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *FileRecords) ListByOwner(_ context.Context, ownerID uuid.UUID) (file.Records, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out file.Records
	for _, r := range s.recs {
		if r.OwnerID == ownerID {
			rec := r
			out = append(out, &rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *FileRecords) UpdateDisplayName(_ context.Context, id file.ID, displayName string) (*file.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	rec.DisplayName = displayName
	s.recs[id] = rec

	return &rec, nil
}

func (s *FileRecords) Delete(_ context.Context, id file.ID) (bool, error) {
	if s.DeleteErr != nil {
		if err := s.DeleteErr(id); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[id]; !ok {
		return false, nil
	}
	delete(s.recs, id)

	return true, nil
}

func (s *FileRecords) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"colonies/internal/model"
)

type MemoryStore struct {
	mu           sync.RWMutex
	initialized  bool
	tournaments  map[string]model.TournamentRecord
	trajectories map[string][]model.TrajectoryPoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.tournaments = make(map[string]model.TournamentRecord)
	s.trajectories = make(map[string][]model.TrajectoryPoint)
	return nil
}

func (s *MemoryStore) SaveTournament(_ context.Context, record model.TournamentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return err
	}
	record.Standings = append([]model.StandingRecord(nil), record.Standings...)
	s.tournaments[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetTournament(_ context.Context, runID string) (model.TournamentRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.tournaments[runID]
	if !ok {
		return model.TournamentRecord{}, false, nil
	}
	record.Standings = append([]model.StandingRecord(nil), record.Standings...)
	return record, true, nil
}

func (s *MemoryStore) ListTournaments(_ context.Context) ([]model.TournamentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.TournamentRecord, 0, len(s.tournaments))
	for _, record := range s.tournaments {
		record.Standings = append([]model.StandingRecord(nil), record.Standings...)
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAtUTC == records[j].CreatedAtUTC {
			return records[i].RunID > records[j].RunID
		}
		return records[i].CreatedAtUTC > records[j].CreatedAtUTC
	})
	return records, nil
}

func (s *MemoryStore) SaveTrajectory(_ context.Context, runID string, points []model.TrajectoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.trajectories[runID] = append([]model.TrajectoryPoint(nil), points...)
	return nil
}

func (s *MemoryStore) GetTrajectory(_ context.Context, runID string) ([]model.TrajectoryPoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.trajectories[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.TrajectoryPoint(nil), points...), true, nil
}

// /internal/storage/storage_leaders.go
package storage

import (
	"sort"
	"time"
)

// LeaderRecord is a roulette player's lifetime score.
type LeaderRecord struct {
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	ShotCounter int       `json:"shot_counter"`
	MissCounter int       `json:"miss_counter"`
	DeadCounter int       `json:"dead_counter"`
	TimeInClub  int64     `json:"total_time_in_club"` // seconds spent muted
	FirstShot   time.Time `json:"first_shot"`
	LastShot    time.Time `json:"last_shot"`
}

// EnsureLeader creates a zeroed record for a first-time player.
func (s *Storage) EnsureLeader(userID int64, name string, now time.Time) error {
	return update(s, collLeaders, func(docs map[string]LeaderRecord) error {
		if _, ok := docs[userKey(userID)]; ok {
			return nil
		}
		docs[userKey(userID)] = LeaderRecord{
			UserID:    userID,
			UserName:  name,
			FirstShot: now,
			LastShot:  now,
		}
		return nil
	})
}

func (s *Storage) RecordMiss(userID int64, now time.Time) error {
	return update(s, collLeaders, func(docs map[string]LeaderRecord) error {
		rec := docs[userKey(userID)]
		rec.ShotCounter++
		rec.MissCounter++
		rec.LastShot = now
		docs[userKey(userID)] = rec
		return nil
	})
}

func (s *Storage) RecordDeath(userID int64, muteMinutes int, now time.Time) error {
	return update(s, collLeaders, func(docs map[string]LeaderRecord) error {
		rec := docs[userKey(userID)]
		rec.ShotCounter++
		rec.DeadCounter++
		rec.TimeInClub += int64(muteMinutes) * 60
		rec.LastShot = now
		docs[userKey(userID)] = rec
		return nil
	})
}

func (s *Storage) RemoveLeader(userID int64) error {
	return update(s, collLeaders, func(docs map[string]LeaderRecord) error {
		delete(docs, userKey(userID))
		return nil
	})
}

func (s *Storage) WipeLeaders() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeColl(collLeaders, map[string]LeaderRecord{})
	return nil
}

// Leaders returns all players, longest club time first.
func (s *Storage) Leaders() ([]LeaderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[LeaderRecord](s, collLeaders)
	if err != nil {
		return nil, err
	}
	list := make([]LeaderRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TimeInClub > list[j].TimeInClub })
	return list, nil
}

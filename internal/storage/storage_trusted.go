// /internal/storage/storage_trusted.go
package storage

import (
	"sort"
	"time"
)

// TrustRecord grants a user elevated (non-admin) permissions.
type TrustRecord struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	GrantedBy int64     `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

func (s *Storage) Trust(rec TrustRecord) error {
	return update(s, collTrusted, func(docs map[string]TrustRecord) error {
		docs[userKey(rec.UserID)] = rec
		return nil
	})
}

func (s *Storage) Untrust(userID int64) error {
	return update(s, collTrusted, func(docs map[string]TrustRecord) error {
		delete(docs, userKey(userID))
		return nil
	})
}

func (s *Storage) IsTrusted(userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[TrustRecord](s, collTrusted)
	if err != nil {
		return false, err
	}
	_, ok := docs[userKey(userID)]
	return ok, nil
}

func (s *Storage) TrustedList() ([]TrustRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[TrustRecord](s, collTrusted)
	if err != nil {
		return nil, err
	}
	list := make([]TrustRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].GrantedAt.Before(list[j].GrantedAt) })
	return list, nil
}

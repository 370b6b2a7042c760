// /internal/storage/storage_peninsulas.go
package storage

import "sort"

// PeninsulaRecord is an entry in the telegram-id-length contest.
type PeninsulaRecord struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

func (s *Storage) AddPeninsula(userID int64, name string) error {
	return update(s, collPeninsulas, func(docs map[string]PeninsulaRecord) error {
		docs[userKey(userID)] = PeninsulaRecord{UserID: userID, UserName: name}
		return nil
	})
}

// BestPeninsulas returns up to n entries, lowest user ID first.
func (s *Storage) BestPeninsulas(n int) ([]PeninsulaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[PeninsulaRecord](s, collPeninsulas)
	if err != nil {
		return nil, err
	}
	list := make([]PeninsulaRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}

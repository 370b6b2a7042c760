// /internal/storage/storage_quarantine.go
package storage

import "time"

// QuarantineRecord marks a new member awaiting the reply challenge.
// Record existence is the sole source of truth for quarantine status.
type QuarantineRecord struct {
	UserID      int64     `json:"user_id"`
	ChatID      int64     `json:"chat_id"`
	UserName    string    `json:"user_name"`
	RelMessages []int     `json:"rel_messages"`
	ExpireAt    time.Time `json:"expire_at"`
}

// AddQuarantine enrolls a user. No-op when a record already exists, so a
// user can never hold two records at once.
func (s *Storage) AddQuarantine(rec QuarantineRecord) (added bool, err error) {
	err = update(s, collQuarantine, func(docs map[string]QuarantineRecord) error {
		if _, ok := docs[userKey(rec.UserID)]; ok {
			return nil
		}
		if rec.RelMessages == nil {
			rec.RelMessages = []int{}
		}
		docs[userKey(rec.UserID)] = rec
		added = true
		return nil
	})
	return added, err
}

func (s *Storage) FindQuarantine(userID int64) (*QuarantineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[QuarantineRecord](s, collQuarantine)
	if err != nil {
		return nil, err
	}
	rec, ok := docs[userKey(userID)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Storage) AllQuarantine() ([]QuarantineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[QuarantineRecord](s, collQuarantine)
	if err != nil {
		return nil, err
	}
	list := make([]QuarantineRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	return list, nil
}

// AddQuarantineMessage records a message to clean up on release or expiry.
// Behaves as add-to-set.
func (s *Storage) AddQuarantineMessage(userID int64, messageID int) error {
	return update(s, collQuarantine, func(docs map[string]QuarantineRecord) error {
		rec, ok := docs[userKey(userID)]
		if !ok {
			return nil
		}
		for _, id := range rec.RelMessages {
			if id == messageID {
				return nil
			}
		}
		rec.RelMessages = append(rec.RelMessages, messageID)
		docs[userKey(userID)] = rec
		return nil
	})
}

func (s *Storage) DeleteQuarantine(userID int64) error {
	return update(s, collQuarantine, func(docs map[string]QuarantineRecord) error {
		delete(docs, userKey(userID))
		return nil
	})
}

func (s *Storage) DeleteAllQuarantine() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeColl(collQuarantine, map[string]QuarantineRecord{})
	return nil
}

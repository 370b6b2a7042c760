// /internal/storage/storage_prayer.go
package storage

// PrayerRecord holds one day's prayer schedule. At most one record is
// current (its DateKey matches today); stale records are purged by the
// freshness sweep before a refetch.
type PrayerRecord struct {
	DateKey        string   `json:"date_key"` // DD.MM.YYYY
	Today          []string `json:"today"`    // "HH:MM", ascending
	Tomorrow       []string `json:"tomorrow"`
	NotifyChatID   int64    `json:"notify_chat_id"`
	NotifyMsgID    int      `json:"notify_msg_id"`   // 0 = no active notification
	NotifiedBucket int      `json:"notified_bucket"` // minutes remaining at last notify, -1 = none
}

func (s *Storage) SavePrayer(rec PrayerRecord) error {
	return update(s, collPrayerTimes, func(docs map[string]PrayerRecord) error {
		docs[rec.DateKey] = rec
		return nil
	})
}

func (s *Storage) FindPrayer(dateKey string) (*PrayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[PrayerRecord](s, collPrayerTimes)
	if err != nil {
		return nil, err
	}
	rec, ok := docs[dateKey]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Storage) AllPrayer() ([]PrayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[PrayerRecord](s, collPrayerTimes)
	if err != nil {
		return nil, err
	}
	list := make([]PrayerRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	return list, nil
}

// SetPrayerNotification tracks the live notification message and the minute
// bucket it was last updated for.
func (s *Storage) SetPrayerNotification(dateKey string, chatID int64, msgID, bucket int) error {
	return update(s, collPrayerTimes, func(docs map[string]PrayerRecord) error {
		rec, ok := docs[dateKey]
		if !ok {
			return nil
		}
		rec.NotifyChatID = chatID
		rec.NotifyMsgID = msgID
		rec.NotifiedBucket = bucket
		docs[dateKey] = rec
		return nil
	})
}

func (s *Storage) ClearPrayerNotification(dateKey string) error {
	return update(s, collPrayerTimes, func(docs map[string]PrayerRecord) error {
		rec, ok := docs[dateKey]
		if !ok {
			return nil
		}
		rec.NotifyChatID = 0
		rec.NotifyMsgID = 0
		rec.NotifiedBucket = -1
		docs[dateKey] = rec
		return nil
	})
}

func (s *Storage) DeletePrayer(dateKey string) error {
	return update(s, collPrayerTimes, func(docs map[string]PrayerRecord) error {
		delete(docs, dateKey)
		return nil
	})
}

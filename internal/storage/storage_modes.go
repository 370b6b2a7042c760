// /internal/storage/storage_modes.go
package storage

import "fmt"

// ModeRecord is one persisted toggle, scoped to a chat.
type ModeRecord struct {
	Mode    string `json:"mode"`
	ChatID  int64  `json:"chat_id"`
	Enabled bool   `json:"enabled"`
}

func modeKey(mode string, chatID int64) string {
	return fmt.Sprintf("%s:%d", mode, chatID)
}

// ModeState reads the persisted toggle for a mode in a chat.
// found is false when the mode was never toggled there.
func (s *Storage) ModeState(mode string, chatID int64) (enabled, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[ModeRecord](s, collModes)
	if err != nil {
		return false, false, err
	}
	rec, ok := docs[modeKey(mode, chatID)]
	if !ok {
		return false, false, nil
	}
	return rec.Enabled, true, nil
}

func (s *Storage) SetModeState(mode string, chatID int64, enabled bool) error {
	return update(s, collModes, func(docs map[string]ModeRecord) error {
		docs[modeKey(mode, chatID)] = ModeRecord{Mode: mode, ChatID: chatID, Enabled: enabled}
		return nil
	})
}

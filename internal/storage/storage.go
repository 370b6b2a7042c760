// /internal/storage/storage.go
//
// Storage layers document-store semantics on top of the key-value datastore:
// each collection lives under one datastore key and holds documents keyed by
// a string ID. Reads go through a JSON round-trip because the datastore
// returns generic maps after a reload from disk.
package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/keshon/datastore"
)

const (
	collModes       = "modes"
	collQuarantine  = "quarantine"
	collTopics      = "topics"
	collTrusted     = "trusted"
	collLeaders     = "leaders"
	collPeninsulas  = "peninsulas"
	collPrayerTimes = "prayer_times"
)

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex // serializes read-modify-write of whole collections
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// loadColl returns the documents of a collection, decoded into T.
// A missing collection is an empty one.
func loadColl[T any](s *Storage, coll string) (map[string]T, error) {
	raw, exists := s.ds.Get(coll)
	if !exists {
		return map[string]T{}, nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error marshalling collection %s: %w", coll, err)
	}

	docs := map[string]T{}
	if err := json.Unmarshal(jsonData, &docs); err != nil {
		return nil, fmt.Errorf("error unmarshalling collection %s: %w", coll, err)
	}
	return docs, nil
}

func (s *Storage) storeColl(coll string, docs any) {
	s.ds.Add(coll, docs)
}

// update runs fn over a collection under the storage lock and writes the
// result back. fn may mutate docs freely.
func update[T any](s *Storage, coll string, fn func(docs map[string]T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[T](s, coll)
	if err != nil {
		return err
	}
	if err := fn(docs); err != nil {
		return err
	}
	s.storeColl(coll, docs)
	return nil
}

func userKey(userID int64) string {
	return fmt.Sprintf("%d", userID)
}

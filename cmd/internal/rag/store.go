package rag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var (
	chunkPrefix = []byte("chunk:")
	manifestKey = []byte("meta:manifest")
)

// Store 는 임베딩이 채워진 청크와 Manifest 를 badger 에 영속화한다.
type Store struct {
	db *badger.DB
}

func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open index storage: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Manifest 는 저장된 인덱스 정보를 반환한다. 인덱스가 없으면 (nil, nil).
func (s *Store) Manifest() (*Manifest, error) {
	var m Manifest
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(manifestKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index manifest: %w", err)
	}
	return &m, nil
}

// LoadChunks 는 저장된 청크 전체를 키 순서대로 읽는다.
func (s *Store) LoadChunks() ([]Chunk, error) {
	var chunks []Chunk
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(chunkPrefix); it.ValidForPrefix(chunkPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var c Chunk
				if err := json.Unmarshal(val, &c); err != nil {
					return err
				}
				chunks = append(chunks, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	return chunks, nil
}

// Replace 는 기존 청크를 모두 지우고 chunks 와 manifest 로 교체한다.
// manifest 는 청크 기록이 끝난 뒤 마지막에 쓴다.
func (s *Store) Replace(chunks []Chunk, manifest Manifest) error {
	if err := s.db.DropPrefix(chunkPrefix, manifestKey); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, c := range chunks {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk %s: %w", c.ID, err)
		}
		if err := wb.Set(append(append([]byte{}, chunkPrefix...), c.ID...), data); err != nil {
			return fmt.Errorf("failed to write chunk %s: %w", c.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush chunks: %w", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(manifestKey, data)
	})
}

package repository

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

var ErrProblemNotFound = errors.New("问题实例不存在")

const problemKeyPrefix = "ltga:problem:"

// ProblemStore 问题实例保存在 badger 中，值为 JSON
type ProblemStore struct {
	db *badger.DB
}

// OpenProblemStore dir 为空时使用内存模式
func OpenProblemStore(dir string) (*ProblemStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &ProblemStore{db: db}, nil
}

func (s *ProblemStore) Close() error {
	return s.db.Close()
}

func problemKey(id string) []byte {
	return []byte(problemKeyPrefix + id)
}

// SaveProblem 没有 ID 的实例会分配一个新的 ID
func (s *ProblemStore) SaveProblem(p *domain.Problem) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(problemKey(p.ID), data)
	})
}

func (s *ProblemStore) GetProblem(id string) (*domain.Problem, error) {
	p := &domain.Problem{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(problemKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, p)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	return p, nil
}

// ListProblemIDs 按 ID 排序
func (s *ProblemStore) ListProblemIDs() ([]string, error) {
	ids := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(problemKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(problemKeyPrefix):])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	return ids, nil
}

func (s *ProblemStore) DeleteProblem(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(problemKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrProblemNotFound
			}
			return err
		}
		return txn.Delete(problemKey(id))
	})
}

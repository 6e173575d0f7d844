// Package store persists a completed simulation run's recorded
// transactions, blocks and room states to a boltdb file.
package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"github.com/AdrienHorgnies/bcqueue/chain"
)

var runsBucket = []byte("runs")

// Store is a boltdb-backed archive of simulation runs: a top-level "runs"
// bucket holds one bucket per run label, which holds a sub-bucket each for
// transactions, blocks and room states. Entries are JSON-encoded: chain.Transaction and chain.Block carry
// optional (pointer) fields that a fixed-size binary record can't represent.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) a boltdb file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tr *bolt.Tx) error {
		_, err := tr.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying boltdb file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one run's recorded lists under label, overwriting any
// prior run saved under the same label.
func (s *Store) SaveRun(label string, txs []*chain.Transaction, blocks []*chain.Block, rooms []*chain.RoomState) error {
	return s.db.Update(func(tr *bolt.Tx) error {
		runs := tr.Bucket(runsBucket)
		if err := runs.DeleteBucket([]byte(label)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		run, err := runs.CreateBucket([]byte(label))
		if err != nil {
			return err
		}

		if err := putAll(run, "transactions", len(txs), func(i int) (interface{}, error) {
			return txs[i], nil
		}); err != nil {
			return err
		}
		if err := putAll(run, "blocks", len(blocks), func(i int) (interface{}, error) {
			return blocks[i], nil
		}); err != nil {
			return err
		}
		return putAll(run, "rooms", len(rooms), func(i int) (interface{}, error) {
			return rooms[i], nil
		})
	})
}

func putAll(run *bolt.Bucket, name string, n int, at func(i int) (interface{}, error)) error {
	bkt, err := run.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		v, err := at(i)
		if err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := bkt.Put(itob(int64(i)), data); err != nil {
			return err
		}
	}
	return nil
}

// LoadRun retrieves a previously saved run's recorded lists.
func (s *Store) LoadRun(label string) ([]*chain.Transaction, []*chain.Block, []*chain.RoomState, error) {
	var (
		txs    []*chain.Transaction
		blocks []*chain.Block
		rooms  []*chain.RoomState
	)
	err := s.db.View(func(tr *bolt.Tx) error {
		runs := tr.Bucket(runsBucket)
		run := runs.Bucket([]byte(label))
		if run == nil {
			return bolt.ErrBucketNotFound
		}

		if bkt := run.Bucket([]byte("transactions")); bkt != nil {
			if err := bkt.ForEach(func(_, v []byte) error {
				tx := new(chain.Transaction)
				if err := json.Unmarshal(v, tx); err != nil {
					return err
				}
				txs = append(txs, tx)
				return nil
			}); err != nil {
				return err
			}
		}
		if bkt := run.Bucket([]byte("blocks")); bkt != nil {
			if err := bkt.ForEach(func(_, v []byte) error {
				b := new(chain.Block)
				if err := json.Unmarshal(v, b); err != nil {
					return err
				}
				blocks = append(blocks, b)
				return nil
			}); err != nil {
				return err
			}
		}
		if bkt := run.Bucket([]byte("rooms")); bkt != nil {
			if err := bkt.ForEach(func(_, v []byte) error {
				r := new(chain.RoomState)
				if err := json.Unmarshal(v, r); err != nil {
					return err
				}
				rooms = append(rooms, r)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return txs, blocks, rooms, nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

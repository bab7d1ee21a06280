package deploy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	lderrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// recordPrefix namespaces deployment records in the database.
const recordPrefix = "deploy:"

// ErrRecordNotFound is returned when no record exists for a txid.
var ErrRecordNotFound = fmt.Errorf("deployment record not found")

// Record is one submitted deployment or invocation.
type Record struct {
	TxID            string    `json:"txid"`
	Contract        string    `json:"contract"`
	Sender          string    `json:"sender"`
	SystemFee       uint64    `json:"systemFee"`
	NetworkFee      uint64    `json:"networkFee"`
	ValidUntilBlock uint32    `json:"validUntilBlock"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// NewRecord converts a submitted Result into a Record.
func NewRecord(res *Result) Record {
	return Record{
		TxID:            res.TxID,
		Contract:        res.Contract,
		Sender:          res.Sender,
		SystemFee:       res.SystemFee,
		NetworkFee:      res.NetworkFee,
		ValidUntilBlock: res.ValidUntilBlock,
		SubmittedAt:     time.Now().UTC(),
	}
}

// Store persists deployment records in LevelDB.
type Store struct {
	db   *leveldb.DB
	path string
}

// OpenStore opens (or creates) the record database at path.
func OpenStore(path string) (*Store, error) {
	options := &opt.Options{
		OpenFilesCacheCapacity: 16,
		WriteBuffer:            4 * opt.MiB,
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		if lderrors.IsCorrupted(err) {
			db, err = leveldb.RecoverFile(path, options)
			if err != nil {
				return nil, fmt.Errorf("failed to recover record store: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to open record store: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a record keyed by its transaction id.
func (s *Store) Put(r Record) error {
	if r.TxID == "" {
		return fmt.Errorf("record has no txid")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(recordPrefix+r.TxID), b, nil)
}

// Get loads the record for a transaction id.
func (s *Store) Get(txid string) (*Record, error) {
	b, err := s.db.Get([]byte(recordPrefix+txid), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	r := new(Record)
	if err := json.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns every stored record.
func (s *Store) List() ([]Record, error) {
	var out []Record
	it := s.db.NewIterator(util.BytesPrefix([]byte(recordPrefix)), nil)
	defer it.Release()
	for it.Next() {
		var r Record
		if err := json.Unmarshal(it.Value(), &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, it.Error()
}

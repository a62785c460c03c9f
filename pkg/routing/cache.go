package routing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/grid/path"
)

var errCorruptEntry = errors.New("corrupt cache entry")

// CacheKey identifies a query. Including the grid version means a new grid
// never sees results computed on an older one.
type CacheKey struct {
	Version   uint64
	Navigator string
	Start     grid.Point
	End       grid.Point
	Limits    path.StepLimits
}

func (k CacheKey) String() string {
	return fmt.Sprintf("path/v%d/%s/%d,%d/%d,%d/%g/%g", k.Version, k.Navigator,
		k.Start.X, k.Start.Y, k.End.X, k.End.Y, k.Limits.MaxDrop, k.Limits.MaxJump)
}

// PathCache stores query results. Implementations must be safe for
// concurrent use; failures are reported as misses.
type PathCache interface {
	Get(key CacheKey) (path.Result, bool)
	Put(key CacheKey, result path.Result)
}

// DefaultCacheTTL bounds how long entries of replaced grids linger
const DefaultCacheTTL = time.Hour

// BadgerCache keeps query results in a BadgerDB, either on disk or in memory.
// KPIs and the search space are not stored.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// Open a cache in dir, or a purely in-memory one if inMemory is set
func NewBadgerCache(dir string, inMemory bool) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open path cache: %w", err)
	}
	return &BadgerCache{
		db:     db,
		ttl:    DefaultCacheTTL,
		logger: slog.Default().With(slog.String("component", "path_cache")),
	}, nil
}

func (c *BadgerCache) SetTTL(ttl time.Duration) { c.ttl = ttl }

func (c *BadgerCache) Close() error { return c.db.Close() }

// Stats returns the number of hits, misses and storage errors so far
func (c *BadgerCache) Stats() (hits, misses, errs int64) {
	return c.hits.Load(), c.misses.Load(), c.errors.Load()
}

func (c *BadgerCache) Get(key CacheKey) (path.Result, bool) {
	var result path.Result
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decodeErr error
			result, decodeErr = decodeResult(val)
			return decodeErr
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.errors.Add(1)
			c.logger.Warn("path cache read error",
				slog.String("key", key.String()),
				slog.String("error", err.Error()),
			)
		}
		c.misses.Add(1)
		return path.Result{}, false
	}
	c.hits.Add(1)
	result.Origin, result.Destination = key.Start, key.End
	return result, true
}

func (c *BadgerCache) Put(key CacheKey, result path.Result) {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key.String()), encodeResult(result))
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.errors.Add(1)
		c.logger.Warn("path cache write error",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

// layout: outcome (1 byte), cost (8), point count (4), then x/y pairs (2+2 each)
const resultHeaderSize = 1 + 8 + 4

func encodeResult(result path.Result) []byte {
	buf := make([]byte, resultHeaderSize+4*len(result.Path))
	buf[0] = byte(result.Outcome)
	binary.BigEndian.PutUint64(buf[1:], uint64(result.Cost))
	binary.BigEndian.PutUint32(buf[9:], uint32(len(result.Path)))
	offset := resultHeaderSize
	for _, p := range result.Path {
		binary.BigEndian.PutUint16(buf[offset:], p.X)
		binary.BigEndian.PutUint16(buf[offset+2:], p.Y)
		offset += 4
	}
	return buf
}

func decodeResult(val []byte) (path.Result, error) {
	if len(val) < resultHeaderSize {
		return path.Result{}, fmt.Errorf("%w: %d bytes", errCorruptEntry, len(val))
	}
	count := int(binary.BigEndian.Uint32(val[9:]))
	if len(val) != resultHeaderSize+4*count {
		return path.Result{}, fmt.Errorf("%w: %d bytes for %d points", errCorruptEntry, len(val), count)
	}
	result := path.Result{
		Outcome: path.Outcome(val[0]),
		Cost:    int(binary.BigEndian.Uint64(val[1:])),
		Path:    make([]grid.Point, count),
	}
	offset := resultHeaderSize
	for i := range result.Path {
		result.Path[i] = grid.MakePoint(binary.BigEndian.Uint16(val[offset:]), binary.BigEndian.Uint16(val[offset+2:]))
		offset += 4
	}
	return result, nil
}

package database

// IdealBatchSize is the best batch size.
// Code using batches should try to add this much data to the batch.
const IdealBatchSize = 100 * 1024

// Putter wraps the database write operation supported by both batches and regular databases.
type Putter interface {
	Put(key []byte, value []byte) error
}

// Deleter wraps the database delete operation supported by both batches and regular databases.
type Deleter interface {
	Delete(key []byte) error
}

// Getter wraps the read operations.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// Iterator visits keys sharing a prefix in order.
type Iterator interface {
	// Iterate calls fn for every key starting with prefix until fn returns an error
	// or ErrStopIteration. Key and value are only valid during the call.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// Database wraps all database operations. All methods are safe for concurrent use.
type Database interface {
	Putter
	Deleter
	Getter
	Iterator
	NewBatch() Batch
	// ApproximateSize returns the on disk size of keys starting with prefix.
	ApproximateSize(prefix []byte) (int64, error)
	Close() error
}

// Batch is a write-only database that commits changes to its host database
// when Write is called. Batch cannot be used concurrently.
type Batch interface {
	Putter
	Deleter
	// ValueSize is the amount of data in the batch.
	ValueSize() int
	Write() error
	// Reset resets the batch for reuse.
	Reset()
}

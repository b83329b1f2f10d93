// Package index provides an in-memory ordered index built on the [bst] node
// layer. It owns the tree topology: insertion, deletion and the single-writer
// locking that the node layer expects from its caller. The tree is a plain
// binary search tree and is not rebalanced.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

// ErrUniqueViolation is returned by Insert on a unique index when the key is
// already present.
var ErrUniqueViolation = errors.New("unique constraint violated")

const tracerName = "bstindex/index"

// Config configures a new [Index]. The zero value is a non-unique index with
// default comparators and no telemetry.
type Config[K, V any] struct {
	// Strategy supplies key ordering and key/value equality.
	Strategy bst.Strategy[K, V]

	// Logger receives debug records for every mutation. Nil discards.
	Logger *slog.Logger

	// Metrics records operation counters. Nil uses a no-op meter.
	Metrics *Metrics

	// Tracer opens one span per operation. Nil uses a no-op tracer.
	Tracer trace.Tracer

	// Unique rejects a second value under an existing key.
	Unique bool
}

// Index is an ordered key to values index. It is safe for concurrent use:
// mutations take the write lock, reads share the read lock.
type Index[K, V any] struct {
	arena   *bst.Arena[K, V]
	root    bst.Node[K, V]
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	mu      sync.RWMutex
	unique  bool
}

// New creates an empty index.
func New[K, V any](cfg Config[K, V]) *Index[K, V] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	metrics := cfg.Metrics
	if metrics == nil {
		// Instrument creation on the no-op meter cannot fail.
		metrics, _ = NewMetrics(noopmetric.NewMeterProvider().Meter(tracerName))
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	arena := bst.NewArena(cfg.Strategy)

	return &Index[K, V]{
		arena:   arena,
		root:    arena.NewNode(bst.NodeConfig[K, V]{Unique: cfg.Unique}),
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		unique:  cfg.Unique,
	}
}

// Unique reports whether the index rejects duplicate keys.
func (idx *Index[K, V]) Unique() bool {
	return idx.unique
}

// Insert stores value under key. An existing key gets the value appended,
// unless the index is unique, in which case ErrUniqueViolation is returned.
func (idx *Index[K, V]) Insert(ctx context.Context, key K, value V) error {
	ctx, done := idx.observe(ctx, OpInsert)

	idx.mu.Lock()
	created, err := idx.insert(key, value)
	idx.mu.Unlock()

	if created {
		idx.metrics.AddKeys(ctx, 1)
	}

	done(err)

	if err != nil {
		return err
	}

	idx.logger.DebugContext(ctx, "index insert", "key", key, "new_key", created)

	return nil
}

func (idx *Index[K, V]) insert(key K, value V) (bool, error) {
	if idx.root.IsEmpty() {
		idx.root.SetKey(key)
		idx.root.SetValues([]V{value})

		return true, nil
	}

	compare := idx.arena.Strategy().CompareKeys
	cursor := idx.root

	for {
		cursorKey, _ := cursor.Key()

		c := compare(key, cursorKey)

		switch {
		case c == 0:
			if idx.unique {
				return false, fmt.Errorf("%w: key %v", ErrUniqueViolation, key)
			}

			cursor.AppendValue(value)

			return false, nil
		case c < 0:
			if !cursor.HasLeft() {
				cursor.SetLeft(idx.newLeaf(cursor, key, value))

				return true, nil
			}

			cursor = cursor.Left()
		default:
			if !cursor.HasRight() {
				cursor.SetRight(idx.newLeaf(cursor, key, value))

				return true, nil
			}

			cursor = cursor.Right()
		}
	}
}

func (idx *Index[K, V]) newLeaf(parent bst.Node[K, V], key K, value V) bst.Node[K, V] {
	return idx.arena.NewNode(bst.NodeConfig[K, V]{
		Parent: parent.ID(),
		Key:    key,
		HasKey: true,
		Values: []V{value},
		Unique: idx.unique,
	})
}

// Delete removes key with all its values. It reports whether the key existed.
func (idx *Index[K, V]) Delete(ctx context.Context, key K) bool {
	ctx, done := idx.observe(ctx, OpDelete)

	idx.mu.Lock()

	n := idx.find(key)

	removed := !n.IsNil()
	if removed {
		idx.removeNode(n)
	}

	idx.mu.Unlock()

	if removed {
		idx.metrics.AddKeys(ctx, -1)
		idx.logger.DebugContext(ctx, "index delete", "key", key)
	}

	done(nil)

	return removed
}

// DeleteValue removes the values equal to value stored under key, and the key
// itself once no value remains. It reports whether anything was removed.
func (idx *Index[K, V]) DeleteValue(ctx context.Context, key K, value V) bool {
	ctx, done := idx.observe(ctx, OpDeleteValue)

	idx.mu.Lock()

	var removed, keyRemoved bool

	n := idx.find(key)
	if !n.IsNil() {
		equal := idx.arena.Strategy().ValueEqual
		before := n.Values()
		kept := slices.DeleteFunc(slices.Clone(before), func(v V) bool { return equal(v, value) })

		removed = len(kept) != len(before)

		switch {
		case !removed:
		case len(kept) == 0:
			idx.removeNode(n)

			keyRemoved = true
		default:
			n.SetValues(kept)
		}
	}

	idx.mu.Unlock()

	if keyRemoved {
		idx.metrics.AddKeys(ctx, -1)
	}

	if removed {
		idx.logger.DebugContext(ctx, "index delete value", "key", key, "key_removed", keyRemoved)
	}

	done(nil)

	return removed
}

// find returns the node holding key, or a nil handle.
func (idx *Index[K, V]) find(key K) bst.Node[K, V] {
	if idx.root.IsEmpty() {
		return bst.Node[K, V]{}
	}

	compare := idx.arena.Strategy().CompareKeys
	cursor := idx.root

	for !cursor.IsNil() {
		cursorKey, _ := cursor.Key()

		c := compare(key, cursorKey)

		switch {
		case c == 0:
			return cursor
		case c < 0:
			cursor = cursor.Left()
		default:
			cursor = cursor.Right()
		}
	}

	return bst.Node[K, V]{}
}

// removeNode unlinks n. A node with two children takes over the entry of its
// in-order predecessor, which is then unlinked instead.
func (idx *Index[K, V]) removeNode(n bst.Node[K, V]) {
	if n.HasLeft() && n.HasRight() {
		pred := n.Left().MaxKeyDescendant()
		predKey, _ := pred.Key()

		n.SetKey(predKey)
		n.SetValues(pred.Values())

		n = pred
	}

	child := n.Left()
	if child.IsNil() {
		child = n.Right()
	}

	parent := n.Parent()

	if parent.IsNil() {
		if child.IsNil() {
			// Last key: the root stays as an empty node.
			n.ClearKey()

			return
		}

		child.SetParent(bst.Node[K, V]{})
		idx.root = child
		idx.arena.Free(n)

		return
	}

	if !child.IsNil() {
		child.SetParent(parent)
	}

	if parent.Left().Equal(n) {
		parent.SetLeft(child)
	} else {
		parent.SetRight(child)
	}

	idx.arena.Free(n)
}

// Reset drops every key.
func (idx *Index[K, V]) Reset(ctx context.Context) {
	idx.mu.Lock()

	count := idx.root.NumberOfKeys()

	idx.arena.Reset()
	idx.root = idx.arena.NewNode(bst.NodeConfig[K, V]{Unique: idx.unique})

	idx.mu.Unlock()

	idx.metrics.AddKeys(ctx, -int64(count))
}

// observe opens a span for op and returns a function that ends it and records
// the operation metrics.
func (idx *Index[K, V]) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()

	ctx, span := idx.tracer.Start(ctx, "index."+op,
		trace.WithAttributes(attribute.String(attrOp, op)),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
		idx.metrics.RecordOperation(ctx, op, err, time.Since(start))
	}
}

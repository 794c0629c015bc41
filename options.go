package bptree

import (
	"go.uber.org/zap"
)

// Options configures a Tree.
type Options struct {
	// Order is the maximum number of keys a node may hold.
	// Must be at least MinOrder.
	// Default: DefaultOrder.
	Order int

	// MaxNodes caps the number of live nodes. Once the cap is reached,
	// inserts that need new nodes fail with ErrNodesExhausted.
	// Default: 0 (unbounded).
	MaxNodes int

	// Logger receives structural events (splits, merges, borrows, root
	// changes) at debug level.
	// Default: nil (logging disabled).
	Logger *zap.Logger
}

// DefaultOptions returns the default tree options.
func DefaultOptions() Options {
	return Options{
		Order:    DefaultOrder,
		MaxNodes: 0,
		Logger:   nil,
	}
}

// Validate validates the options and returns an error if invalid.
// Zero values are replaced with defaults.
func (o *Options) Validate() error {
	if o.Order == 0 {
		o.Order = DefaultOrder
	}
	if o.Order < MinOrder {
		return ErrInvalidOrder
	}

	if o.MaxNodes < 0 {
		o.MaxNodes = 0
	}

	return nil
}

// WithOrder sets the maximum number of keys per node.
func (o Options) WithOrder(order int) Options {
	o.Order = order
	return o
}

// WithMaxNodes sets the live-node cap.
func (o Options) WithMaxNodes(n int) Options {
	o.MaxNodes = n
	return o
}

// WithLogger sets the logger for structural events.
func (o Options) WithLogger(logger *zap.Logger) Options {
	o.Logger = logger
	return o
}

package main

import (
	"context"
	"fmt"

	diag2svg "github.com/alnah/go-diag2svg"
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input diag2svg.Input) (*diag2svg.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ Converter = (*diag2svg.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Converter, error)
	Release(Converter)
	Size() int
	Close() error
}

// poolAdapter exposes a *diag2svg.ConverterPool as a Pool.
type poolAdapter struct {
	pool *diag2svg.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (Converter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics if c did not come from this adapter (programmer error).
func (a *poolAdapter) Release(c Converter) {
	conv, ok := c.(*diag2svg.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}

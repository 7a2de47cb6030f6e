package main

import (
	"context"
	"io"
	"os"

	diag2svg "github.com/alnah/go-diag2svg"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// NewPool builds the converter pool used by convert.
	NewPool func(size int, opts ...diag2svg.Option) Pool
	// NewHost builds the converter used by serve.
	NewHost func(opts ...diag2svg.Option) (Host, error)
}

// Host serves one document to an external browser.
type Host interface {
	Host(ctx context.Context, input diag2svg.Input, addr string, onReady func(url string)) (*diag2svg.ConvertResult, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Host = (*diag2svg.Converter)(nil)

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPool: func(size int, opts ...diag2svg.Option) Pool {
			return &poolAdapter{pool: diag2svg.NewConverterPool(size, opts...)}
		},
		NewHost: func(opts ...diag2svg.Option) (Host, error) {
			conv, err := diag2svg.NewConverter(opts...)
			if err != nil {
				return nil, err
			}
			return conv, nil
		},
	}
}

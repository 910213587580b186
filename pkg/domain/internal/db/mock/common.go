package mocks

import "errors"

// CallLog records arguments of calls to a mocked method.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// ErrNotMocked is the panic value of mocked methods without Impl.
var ErrNotMocked = errors.New("it should not be called")

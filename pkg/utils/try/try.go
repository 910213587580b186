// Package try turns (value, error) pairs into single expressions.
//
// It is mostly for test fixtures:
//
//	owner := try.To(repo.Get(ctx, 1)).OrFatal(t)
package try

// Fataler is something having Fatal, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Result holds a value or an error.
type Result[T any] struct {
	value T
	err   error
}

// To captures the return values of a function.
func To[T any](value T, err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	return Result[T]{value: value}
}

// Get returns the value and the error as they are captured.
//
// When it has an error, the value is the zero value.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// OrFatal returns the value, or calls ftl.Fatal(err) when it has an error.
//
// When ftl has Helper() (like *testing.T), Helper is called before Fatal.
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err == nil {
		return r.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T)
}

// OrDefault returns the value, or d when it has an error.
func (r Result[T]) OrDefault(d T) T {
	if r.err != nil {
		return d
	}
	return r.value
}

// Map converts the value of r when r has no error.
func Map[T, R any](r Result[T], f func(T) R) Result[R] {
	if r.err != nil {
		return Result[R]{err: r.err}
	}
	return Result[R]{value: f(r.value)}
}

// Result2 holds a pair of values or an error.
type Result2[T, U any] struct {
	first  T
	second U
	err    error
}

// To2 is To for functions returning two values and an error.
func To2[T, U any](first T, second U, err error) Result2[T, U] {
	if err != nil {
		return Result2[T, U]{err: err}
	}
	return Result2[T, U]{first: first, second: second}
}

// OrFatal returns the values, or calls ftl.Fatal(err) when it has an error.
func (r Result2[T, U]) OrFatal(ftl Fataler) (T, U) {
	if r.err == nil {
		return r.first, r.second
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T), *new(U)
}

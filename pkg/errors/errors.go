// Package errors provides an error wrapper which remembers where it is created.
//
// Usage:
//
//	return xe.Wrap(err)
//
// The message of a wrapped error looks like
//
//	@ pkg.Func "file.go" l42 <- @ pkg.Inner "inner.go" l7 <- original message
//
// so reading it with s/<-/\n/ gives a trail of the places which passed the error up.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Located is an error annotated with the function, file and line where it has been wrapped.
type Located struct {
	funcname string
	file     string
	line     int
	note     string
	err      error
}

func (e *Located) File() string {
	return e.file
}

func (e *Located) Line() int {
	return e.line
}

func (e *Located) Func() string {
	return e.funcname
}

func (e *Located) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *Located) Unwrap() error {
	return e.err
}

// New creates a new located error with text.
func New(text string) error {
	return locate("", errors.New(text), 1)
}

// Errorf is fmt.Errorf with location.
//
// %w verbs are honored.
func Errorf(format string, args ...any) error {
	return locate("", fmt.Errorf(format, args...), 1)
}

// Wrap annotates err with the caller's location.
//
// Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return locate("", err, 1)
}

// WrapAsOuter annotates err with the location of a caller depth frames above the caller.
//
// It is for helper functions which should report where they are called from.
func WrapAsOuter(err error, depth int) error {
	if err == nil {
		return nil
	}
	return locate("", err, depth+1)
}

// WrapWithNote is Wrap with an additional human readable note.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return locate(note, err, 1)
}

func locate(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		file = "?"
		line = -1
	}
	funcname := "(unknown func)"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &Located{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}

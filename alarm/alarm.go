// Package alarm reports conditions a user must act on, separately from the
// error values that flow through ordinary returns. Alarms are collected by
// the command line front end and written as a JSON array.
package alarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"
)

const (
	SeverityError   = "ERROR"
	SeverityWarning = "WARNING"
	SeverityFatal   = "FATAL"

	DefaultOwner = "pbmer"
)

type Alarm struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Info      string `json:"info"`
	Exception string `json:"exception"`
	Owner     string `json:"owner"`
}

type Option func(*Alarm)

func WithSeverity(s string) Option { return func(a *Alarm) { a.Severity = s } }
func WithInfo(s string) Option     { return func(a *Alarm) { a.Info = s } }
func WithOwner(s string) Option    { return func(a *Alarm) { a.Owner = s } }

// WithException records err's text as the exception.
func WithException(err error) Option {
	return func(a *Alarm) {
		if err != nil {
			a.Exception = err.Error()
		}
	}
}

// New returns an ERROR alarm with a fresh id.
func New(name, message string, opts ...Option) Alarm {
	a := Alarm{
		ID:       uuid.NewString(),
		Name:     name,
		Message:  message,
		Severity: SeverityError,
		Owner:    DefaultOwner,
	}
	for _, o := range opts {
		o(&a)
	}
	return a
}

func (a Alarm) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", a.Severity, a.ID, a.Name, a.Message)
}

// Write encodes alarms as an indented JSON array. A nil slice is written as
// an empty array.
func Write(w io.Writer, alarms []Alarm) error {
	if alarms == nil {
		alarms = []Alarm{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(alarms); err != nil {
		return fmt.Errorf("alarm: encode: %w", err)
	}
	return nil
}

// WriteFile replaces the file at path with the JSON encoding of alarms.
func WriteFile(path string, alarms []Alarm) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("alarm: %w", err)
	}
	if err := Write(f, alarms); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Error carries an Alarm up to the process top level, together with where it
// was raised.
type Error struct {
	Alarm    Alarm
	File     string
	Function string
	Line     int
}

// Raise returns an *Error for a new alarm, recording the caller's location.
func Raise(name, message string, opts ...Option) *Error {
	e := &Error{Alarm: New(name, message, opts...)}
	if pc, file, line, ok := runtime.Caller(1); ok {
		e.File, e.Line = file, line
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.Function = fn.Name()
		}
	}
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("alarm %s: %s", e.Alarm.Name, e.Alarm.Message)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// SPDX-License-Identifier: MPL-2.0

package errbuf

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/strus/strusmod/pkg/module"

	"github.com/charmbracelet/log"
)

// DefaultMaxMessageSize bounds the pending message. Longer messages are
// truncated and reported as module.ErrorOutOfMemory.
const DefaultMaxMessageSize = 16 * 1024

type (
	// Buffer holds at most one pending error: the most recent code and a
	// message that accumulates earlier reports as context.
	Buffer struct {
		mu      sync.Mutex
		code    module.ErrorCode
		msg     string
		pending bool

		maxSize int
		logger  *log.Logger
	}

	// Option configures a Buffer.
	Option func(*Buffer)
)

var _ module.ErrorBuffer = (*Buffer)(nil)

// WithLogger logs every report at error level.
func WithLogger(l *log.Logger) Option {
	return func(b *Buffer) { b.logger = l }
}

// WithMaxMessageSize sets the message capacity in bytes.
func WithMaxMessageSize(n int) Option {
	return func(b *Buffer) { b.maxSize = n }
}

// New creates an empty Buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{maxSize: DefaultMaxMessageSize}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Report records a failure. If an error is already pending, its message is
// appended as context: "<new>: <previous>".
func (b *Buffer) Report(code module.ErrorCode, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending && b.msg != "" {
		msg = msg + ": " + b.msg
	}
	b.set(code, msg)
	b.logger.Error(msg, "code", int(code))
}

// Explain rewrites the pending message through format, e.g.
// Explain("error loading module: %s").
func (b *Buffer) Explain(format string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.pending {
		return
	}
	b.set(b.code, fmt.Sprintf(format, b.msg))
}

// HasError reports whether an error is pending.
func (b *Buffer) HasError() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Fetch returns the pending error and clears the buffer. Without a pending
// error it returns module.ErrorNone and an empty message.
func (b *Buffer) Fetch() (module.ErrorCode, string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	code, msg := b.code, b.msg
	b.code, b.msg, b.pending = module.ErrorNone, "", false
	return code, msg
}

// Err returns the pending error as a Go error without clearing it.
func (b *Buffer) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.pending {
		return nil
	}
	return &Error{Code: b.code, Message: b.msg}
}

func (b *Buffer) set(code module.ErrorCode, msg string) {
	if b.maxSize > 0 && len(msg) > b.maxSize {
		msg = truncate(msg, b.maxSize)
		code = module.ErrorOutOfMemory
	}
	b.code, b.msg, b.pending = code, msg, true
}

// truncate cuts msg to at most n bytes without splitting a UTF-8 sequence.
func truncate(msg string, n int) string {
	return strings.ToValidUTF8(msg[:n], "")
}

// Error is a fetched or pending buffer entry as a Go error.
type Error struct {
	Code    module.ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the sentinel error of Code.
func (e *Error) Unwrap() error { return e.Code.Err() }

// ErrorCode implements module.Coded.
func (e *Error) ErrorCode() module.ErrorCode { return e.Code }

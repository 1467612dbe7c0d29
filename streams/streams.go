// Package streams provides the message sinks used by readenv to report where
// each field was resolved from and to emit non-fatal warnings (for example a
// missing dotenv file). Notes name fields, keys and paths; they never carry
// resolved values.
//
// Adapters are provided for plain writers, in-memory buffers (with an
// optional thread-safe variant), log/slog and zerolog.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Streams is the contract readenv.WithStreams accepts. Out receives
// provenance notes, ErrOut receives warnings. Either may return nil to
// silence that channel.
type Streams interface {
	Out() io.Writer
	ErrOut() io.Writer
}

// Basic forwards notes and warnings to two writers.
type Basic struct {
	out    io.Writer
	errOut io.Writer
}

func (s Basic) Out() io.Writer    { return s.out }
func (s Basic) ErrOut() io.Writer { return s.errOut }

// Default writes notes to os.Stdout and warnings to os.Stderr.
func Default() Basic {
	return Basic{out: os.Stdout, errOut: os.Stderr}
}

// Writers writes notes to out and warnings to errOut.
func Writers(out, errOut io.Writer) Basic {
	return Basic{out: out, errOut: errOut}
}

// Warnings drops provenance notes and keeps warnings on errOut.
func Warnings(errOut io.Writer) Basic {
	return Basic{out: io.Discard, errOut: errOut}
}

// Discard drops everything.
func Discard() Basic {
	return Writers(io.Discard, io.Discard)
}

// ---------- Buffers ----------

// Buffers captures notes and warnings in memory. It is not safe for
// concurrent writers; see ThreadSafeBuffers.
type Buffers struct {
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// NewBuffers returns Buffers with fresh, empty buffers.
func NewBuffers() *Buffers {
	return &Buffers{OutBuf: &bytes.Buffer{}, ErrBuf: &bytes.Buffer{}}
}

func (b *Buffers) Out() io.Writer    { return b.OutBuf }
func (b *Buffers) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns what has been captured so far.
func (b *Buffers) Strings() (out, errOut string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *Buffers) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func (l *lockedBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Reset()
}

// ThreadSafeBuffers captures output in mutex-protected buffers. Use it when
// several goroutines resolve configuration against the same streams.
type ThreadSafeBuffers struct {
	out    *lockedBuffer
	errOut *lockedBuffer
}

// NewThreadSafeBuffers returns empty ThreadSafeBuffers.
func NewThreadSafeBuffers() *ThreadSafeBuffers {
	return &ThreadSafeBuffers{out: &lockedBuffer{}, errOut: &lockedBuffer{}}
}

func (b *ThreadSafeBuffers) Out() io.Writer    { return b.out }
func (b *ThreadSafeBuffers) ErrOut() io.Writer { return b.errOut }

// Strings returns what has been captured so far.
func (b *ThreadSafeBuffers) Strings() (out, errOut string) {
	return b.out.String(), b.errOut.String()
}

// Reset clears both buffers.
func (b *ThreadSafeBuffers) Reset() {
	b.out.Reset()
	b.errOut.Reset()
}

// ---------- structured loggers ----------

func trimNewline(p []byte) []byte {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return p[:n-1]
	}
	return p
}

// slogWriter turns each Write into one slog record.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.l.Log(context.Background(), w.level, string(trimNewline(p)))
	return len(p), nil
}

// Slog routes notes to l at level info and warnings at level warn.
func Slog(l *slog.Logger, info, warn slog.Level) Basic {
	return Basic{
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: warn},
	}
}

// zerologWriter turns each Write into one zerolog event.
type zerologWriter struct {
	l     zerolog.Logger
	level zerolog.Level
}

func (w zerologWriter) Write(p []byte) (int, error) {
	w.l.WithLevel(w.level).Msg(string(trimNewline(p)))
	return len(p), nil
}

// Zerolog routes notes to l at level info and warnings at level warn.
func Zerolog(l zerolog.Logger, info, warn zerolog.Level) Basic {
	return Basic{
		out:    zerologWriter{l: l, level: info},
		errOut: zerologWriter{l: l, level: warn},
	}
}

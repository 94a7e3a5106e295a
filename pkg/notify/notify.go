// Package notify delivers short user-facing messages about finished
// operations.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Log writes notices to a logrus logger.
type Log struct {
	Entry *logrus.Entry
}

func NewLog(logger *logrus.Logger) Log {
	return Log{Entry: logger.WithField("component", "notify")}
}

func (l Log) Success(msg string) { l.Entry.Info(msg) }
func (l Log) Error(msg string)   { l.Entry.Error(msg) }

// Level is the kind of a recorded notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Message string
}

// Recorder keeps every notice. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	r.notices = append(r.notices, Notice{Level: level, Message: msg})
	r.mu.Unlock()
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Package trace attaches a request-scoped logger to a context so every line
// logged while processing one run or one pull request carries the same id.
package trace

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/qiniu/x/log"
	"github.com/qiniu/x/xlog"
)

// TraceID identifies one run or one pull request within a run.
type TraceID string

const (
	TracePrefix = "prmeta"
	RunPrefix   = "run"
)

func generateTraceID() TraceID {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return TraceID(fmt.Sprintf("%s_%d", TracePrefix, time.Now().UnixNano()))
	}
	return TraceID(fmt.Sprintf("%s_%x", TracePrefix, bytes))
}

// NewRunID creates the id of a new update or verify run.
func NewRunID() TraceID {
	return TraceID(fmt.Sprintf("%s_%s", RunPrefix, generateTraceID()))
}

// PullRequestID derives the id used while a run processes one PR.
func PullRequestID(run TraceID, number int) TraceID {
	if run == "" {
		return TraceID(fmt.Sprintf("pr%d", number))
	}
	return TraceID(fmt.Sprintf("%s/pr%d", run, number))
}

type contextKey string

const traceLoggerKey contextKey = "trace_logger"

// NewContext returns ctx carrying a logger for traceID.
func NewContext(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, traceLoggerKey, xlog.New(string(traceID)))
}

// WithPullRequest scopes ctx to one PR of the run already in ctx.
func WithPullRequest(ctx context.Context, number int) context.Context {
	return NewContext(ctx, PullRequestID(GetTraceID(ctx), number))
}

// FromContext returns the trace logger in ctx, or nil.
func FromContext(ctx context.Context) *xlog.Logger {
	if logger, ok := ctx.Value(traceLoggerKey).(*xlog.Logger); ok {
		return logger
	}
	return nil
}

// GetTraceID returns the id of the trace logger in ctx, or "".
func GetTraceID(ctx context.Context) TraceID {
	logger := FromContext(ctx)
	if logger == nil {
		return ""
	}
	return TraceID(logger.ReqId)
}

// Info logs through the trace logger, or the package logger when ctx has none.
func Info(ctx context.Context, format string, args ...interface{}) {
	if logger := FromContext(ctx); logger != nil {
		logger.Infof(format, args...)
		return
	}
	log.Infof(format, args...)
}

func Warn(ctx context.Context, format string, args ...interface{}) {
	if logger := FromContext(ctx); logger != nil {
		logger.Warnf(format, args...)
		return
	}
	log.Warnf(format, args...)
}

func Error(ctx context.Context, format string, args ...interface{}) {
	if logger := FromContext(ctx); logger != nil {
		logger.Errorf(format, args...)
		return
	}
	log.Errorf(format, args...)
}

func Debug(ctx context.Context, format string, args ...interface{}) {
	if logger := FromContext(ctx); logger != nil {
		logger.Debugf(format, args...)
		return
	}
	log.Debugf(format, args...)
}

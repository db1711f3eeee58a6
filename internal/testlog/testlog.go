// Package testlog routes logrus output through the test log.
package testlog

import (
	"testing"

	"github.com/sirupsen/logrus"
)

// testLoggerAdapter routes log lines through testing.T.Log, so output only
// shows up for failed or verbose tests.
type testLoggerAdapter struct {
	t testing.TB
}

func (a *testLoggerAdapter) Write(d []byte) (int, error) {
	n := len(d)
	if n > 0 && d[n-1] == '\n' {
		d = d[:n-1]
	}
	a.t.Log(string(d))
	return n, nil
}

func New(t testing.TB) *logrus.Logger {
	logger := logrus.New()
	logger.Out = &testLoggerAdapter{t: t}
	logger.Level = logrus.DebugLevel
	return logger
}

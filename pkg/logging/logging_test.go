package logging

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer func() { require.NoError(t, SetLevel("info")) }()

	for _, name := range AvailableLevels {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SetLevel(name))
			want, err := logrus.ParseLevel(name)
			require.NoError(t, err)
			assert.Equal(t, want, Level())
		})
	}

	require.NoError(t, SetLevel("DEBUG"))
	assert.Equal(t, logrus.DebugLevel, Level())
}

func TestSetLevelInvalid(t *testing.T) {
	err := SetLevel("chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestNamedLogger(t *testing.T) {
	entry := NamedLogger("csg")
	assert.Equal(t, "csg", entry.Data["component"])
}

// captured logs through fn at warn level and returns what was written.
func captured(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	out, lvl := root.Out, root.GetLevel()
	root.SetOutput(&buf)
	root.SetLevel(logrus.WarnLevel)
	defer func() {
		root.SetOutput(out)
		root.SetLevel(lvl)
	}()
	fn()
	return buf.String()
}

func TestCallerPrefix(t *testing.T) {
	log := NamedLogger("caller")

	tests := []struct {
		name string
		log  func() int
	}{
		{"Warn", func() int {
			_, _, line, _ := runtime.Caller(0)
			log.Warn("plain")
			return line + 1
		}},
		{"Warnf", func() int {
			_, _, line, _ := runtime.Caller(0)
			log.WithField("n", 2).Warnf("formatted %d", 2)
			return line + 1
		}},
		{"WithError", func() int {
			_, _, line, _ := runtime.Caller(0)
			log.WithError(fmt.Errorf("boom")).Warn("failed")
			return line + 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var line int
			out := captured(t, func() { line = tt.log() })
			assert.Contains(t, out, fmt.Sprintf("[logging_test.go:%03d] ", line))
			assert.NotContains(t, out, "func=")
			assert.NotContains(t, out, "file=")
			assert.Contains(t, out, "component=caller")
		})
	}
}

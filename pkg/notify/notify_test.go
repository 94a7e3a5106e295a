package notify

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success("Account created successfully!")
	r.Error("Failed to withdraw")

	assert.Equal(t, []Notice{
		{Level: LevelSuccess, Message: "Account created successfully!"},
		{Level: LevelError, Message: "Failed to withdraw"},
	}, r.Notices())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, LevelError, last.Level)
}

func TestLogAndMulti(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var rec Recorder
	n := Multi{NewLog(logger), &rec, Nop{}}
	n.Success("Successfully deposited $200")
	n.Error("Insufficient balance")

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "Successfully deposited $200")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "component=notify")
	assert.Len(t, rec.Notices(), 2)
}

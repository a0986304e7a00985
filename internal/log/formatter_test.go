package log_test

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/turnstile/internal/log"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		data logrus.Fields
		want string
	}{
		{
			name: "plain",
			want: "12:30:05.0000 info    barrier tripped\n",
		},
		{
			name: "goroutine",
			data: logrus.Fields{"THREAD": "/barrier/member-3"},
			want: "12:30:05.0000 info    barrier/member-3 : barrier tripped\n",
		},
		{
			name: "fields",
			data: logrus.Fields{"THREAD": "/main", "round": 2, "arrived": "5/5"},
			want: "12:30:05.0000 info    main : barrier tripped : arrived=\"5/5\" round=\"2\"\n",
		},
	}
	f := log.NewFormatter("15:04:05.0000")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Time:    time.Date(2024, 1, 2, 12, 30, 5, 0, time.UTC),
				Level:   logrus.InfoLevel,
				Message: "barrier tripped",
				Data:    tt.data,
			}
			got, err := f.Format(entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSetLevel(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	log.SetLevel(logger, "debug")
	assert.Equal(t, logrus.DebugLevel, logger.Level)

	log.SetLevel(logger, "chatty")
	assert.Equal(t, logrus.InfoLevel, logger.Level)

	log.SetLevel(logger, "")
	assert.Equal(t, logrus.InfoLevel, logger.Level)
}

func TestMakeBaseLogger(t *testing.T) {
	var out bytes.Buffer
	logrus.StandardLogger().SetOutput(&out)
	t.Cleanup(func() { logrus.StandardLogger().SetOutput(os.Stderr) })

	ctx := log.MakeBaseLogger(context.Background(), "warning")
	dlog.Info(ctx, "hidden")
	dlog.Warn(ctx, "shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

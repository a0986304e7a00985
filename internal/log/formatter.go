package log

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formatter prints one line per entry: time, level, the name of the goroutine
// that logged it (as set by dgroup) and the message, followed by any other
// fields in key order.
type Formatter struct {
	timestampFormat string
}

func NewFormatter(timestampFormat string) *Formatter {
	return &Formatter{timestampFormat: timestampFormat}
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	goroutine, _ := entry.Data["THREAD"].(string)
	fmt.Fprintf(b, "%s %-*s", entry.Time.Format(f.timestampFormat), len("warning"), entry.Level)
	if goroutine != "" {
		fmt.Fprintf(b, " %s :", strings.TrimPrefix(goroutine, "/"))
	}
	fmt.Fprintf(b, " %s", entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "THREAD" {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		b.WriteString(" :")
		for _, key := range keys {
			fmt.Fprintf(b, " %s=%q", key, fmt.Sprintf("%+v", entry.Data[key]))
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

package expmap

import (
	"io"

	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = discardLogger()

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger routes chart and decal debug output to l. A nil l silences it.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = discardLogger()
	}
	log = l
}

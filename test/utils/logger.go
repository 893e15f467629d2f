package utils

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"

	"github.com/yeongki/spyglass/internal/logging"
)

// GinkgoLogger writes log lines to GinkgoWriter, so they only show up for
// failing specs or with -v. Prefix, when set, is prepended as "[prefix] ".
type GinkgoLogger struct {
	Prefix string
}

func (l GinkgoLogger) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.Prefix != "" {
		msg = "[" + l.Prefix + "] " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprint(GinkgoWriter, msg)
}

var _ logging.Logger = GinkgoLogger{}

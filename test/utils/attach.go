package utils

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"

	"github.com/yeongki/spyglass/pkg/spyglass"
)

// AttachScopeTimer registers BeforeEach/AfterEach hooks that time every spec
// in the enclosing container and hand the result to sink.
// The timing is named after the spec's leaf node text.
//
// Typical usage inside a Describe:
//
//	AttachScopeTimer(func() spyglass.Sink { return c })
func AttachScopeTimer(sinkProvider func() spyglass.Sink) {
	var guard *spyglass.Guard

	BeforeEach(func() {
		sink := sinkProvider()
		if sink == nil {
			guard = nil
			return
		}
		name := strings.TrimSpace(CurrentSpecReport().LeafNodeText)
		guard = spyglass.Start(sink, name)
	})

	AfterEach(func() {
		if guard == nil {
			return
		}
		t := guard.Stop()
		_, _ = fmt.Fprintf(GinkgoWriter, "spyglass: %s\n", t)
		guard = nil
	})
}

package spyglass

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const unknown = "???"

// Location is the static position of a call: source file, line and the
// enclosing function. It is a plain value and is never mutated after capture.
type Location struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// Here returns the location of the statement that calls Here.
func Here() Location {
	return caller(1)
}

// Caller returns the location of a frame on the calling goroutine's stack.
// skip 0 is the function calling Caller, 1 its caller, and so on.
// A negative skip is treated as 0.
func Caller(skip int) Location {
	if skip < 0 {
		skip = 0
	}
	return caller(skip + 1)
}

// Func returns the short name of the function that calls Func,
// e.g. "main.run" or "store.(*DB).Get".
func Func() string {
	return caller(1).ShortFunction()
}

// Label builds a relatively unique timer name for the calling site:
//
//	[pkg.Func] file.go:12
//	[pkg.Func] name (file.go:12)
func Label(name string) string {
	return caller(1).Label(name)
}

// caller resolves the frame skip levels above its own caller.
func caller(skip int) Location {
	if skip < 0 {
		skip = 0
	}
	var pcs [1]uintptr
	// +2 skips runtime.Callers and caller itself.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Location{File: unknown, Function: unknown}
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	loc := Location{File: frame.File, Line: frame.Line, Function: frame.Function}
	if loc.File == "" {
		loc.File = unknown
	}
	if loc.Function == "" {
		loc.Function = unknown
	}
	return loc
}

// IsZero reports whether the location could not be resolved.
func (l Location) IsZero() bool {
	return l.Line == 0 && (l.File == "" || l.File == unknown)
}

// ShortFile returns the base name of File.
func (l Location) ShortFile() string {
	if l.File == "" || l.File == unknown {
		return unknown
	}
	return filepath.Base(l.File)
}

// ShortFunction strips the import path from Function, keeping the package
// name and everything after it.
func (l Location) ShortFunction() string {
	fn := l.Function
	if fn == "" {
		return unknown
	}
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

// Label formats the location the same way the package-level Label does.
// Only the empty name selects the unnamed form; name is used verbatim.
func (l Location) Label(name string) string {
	if name == "" {
		return fmt.Sprintf("[%s] %s:%d", l.ShortFunction(), l.ShortFile(), l.Line)
	}
	return fmt.Sprintf("[%s] %s (%s:%d)", l.ShortFunction(), name, l.ShortFile(), l.Line)
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d %s", l.ShortFile(), l.Line, l.ShortFunction())
}

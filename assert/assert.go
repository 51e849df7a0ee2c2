package assert

import "github.com/oomph-ac/peek/oerror"

// IsTrue panics with a formatted PeekError if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

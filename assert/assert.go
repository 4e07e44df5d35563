package assert

import "github.com/oomph-ac/blocksim/oerror"

// IsTrue panics with a formatted *oerror.SimError if ok is false. It guards programmer errors only, such
// as registering blocks after the registry was finalised.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

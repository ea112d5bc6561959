//go:build llama

package session

// Link against libllama placed next to the binary (./bin), with an $ORIGIN
// rpath so no environment variables are needed at runtime.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"

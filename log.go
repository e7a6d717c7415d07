package bearimy

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var pkgLogger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	pkgLogger.Store(&nop)
}

// SetLogger replaces the logger used by this package. The package is silent
// until SetLogger is called. It is safe for concurrent use.
func SetLogger(l zerolog.Logger) {
	pkgLogger.Store(&l)
}

// Logger returns the logger used by this package.
func Logger() *zerolog.Logger {
	return pkgLogger.Load()
}

func logger() *zerolog.Logger { return pkgLogger.Load() }

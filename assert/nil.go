// Package assert guards wiring-time invariants. A failed assertion means the
// process was assembled wrong, so it panics instead of returning an error.
package assert

func NotNil(obj any, format string, args ...interface{}) {
	if obj == nil {
		panic(formatMsg(format, args...))
	}
}

func IsNil(obj any, format string, args ...interface{}) {
	if obj != nil {
		panic(formatMsg(format, args...))
	}
}

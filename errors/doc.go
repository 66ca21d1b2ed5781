// Package errors provides the structured error types returned by the
// bytevec codec.
//
// Every failure carries the processing phase (compile, encode, decode),
// a kind from a closed set, and the path of the value element that
// failed, so callers can see exactly where a buffer went wrong:
//
//	[decode] bad_size at meetings.[3]: expected exactly 12 bytes, got 7
//	[encode] overflow at name: encoded size exceeds u8 maximum (255)
//
// Size-mismatch errors additionally carry a machine-readable bound
// (ExpectedSize) and the observed length, so tests and retry logic do
// not need to parse messages.
package errors

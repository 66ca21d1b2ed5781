// Package plan holds the compiled type plans the codec walks at encode
// and decode time. A Plan is an immutable description of one Go type:
// its wire kind, fixed width (primitives), element/key plans
// (collections), and ordered fields (records). Plans are built once per
// type by the root package's Compiler and shared between calls.
package plan

//go:build !signals_novalidate

package signals

// validateByDefault enables handler validation unless the binary is built
// with the signals_novalidate tag.
const validateByDefault = true

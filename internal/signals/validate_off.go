//go:build signals_novalidate

package signals

const validateByDefault = false

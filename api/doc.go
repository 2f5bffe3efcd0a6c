// Package api contains file helpers shared by the configuration kinds in its
// versioned subpackages.
package api

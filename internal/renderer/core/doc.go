// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer, layer, animation
// and backend.
package core

package pipeline

import "errors"

// ErrInvalidDotScale is returned when the dot scale is outside (0, 1].
// It is the only option the renderer refuses; the render aborts before any
// surface is created.
var ErrInvalidDotScale = errors.New("pipeline: dot scale must be in range (0, 1]")

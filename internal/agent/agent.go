// Package agent implements the content workflow agents: research, writer
// and image. Each agent validates its request, attempts a real model call
// when its configuration allows one, and falls back to deterministic
// simulation on any model or configuration error, so a workflow run
// always produces content.
package agent

import "errors"

// SimulationModel is recorded as the model attribution when an agent
// produced its output from the built-in simulation instead of a real
// model call.
const SimulationModel = "enhanced-simulation"

// ErrInvalidRequest wraps request validation failures. The wrapped
// message names the offending field.
var ErrInvalidRequest = errors.New("invalid request")

// Package tracking estimates per-agent kinematics from tracked positions.
//
// This package handles:
// - Instantaneous speed from a forward difference over a lookahead window
// - Heading angle of the same displacement, in degrees
// - Holding the last estimate over the final samples of a trajectory
//
// Estimate works on one agent at a time and has no shared state, so agents
// can be processed in any order.
package tracking

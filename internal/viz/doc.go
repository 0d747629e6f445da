// Package viz draws physics sessions in the terminal.
//
// [Terminal] is a physics visualizer backed by a Bubble Tea program. Every
// stepped frame is sent to a [Dashboard] which projects the bodies onto a
// braille [Canvas] from the session camera and charts the height of the
// dropped body with asciigraph.
//
// # Key Bindings
//
//	q, ctrl+c - close the view; the run stops after the current step
//	g         - toggle the ground grid
package viz

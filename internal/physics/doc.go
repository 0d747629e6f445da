// Package physics is a small rigid-body engine addressed through session
// handles, in the manner of a physics server with numbered clients.
//
// A caller connects to get a [Session], configures it, loads assets and
// bodies, and advances it with [Engine.StepSimulation]:
//
//	eng := physics.NewEngine()
//	s, _ := eng.Connect(physics.Direct)
//	defer eng.Disconnect(s)
//	eng.SetAdditionalSearchPath(s, physics.DataPath)
//	eng.SetGravity(s, r3.Vec{Z: -9.8})
//	eng.LoadAsset(s, "plane.urdf")
//
// Bodies are rigid meshes. Contacts are resolved between mesh support
// points and static planes with sequential impulses, so dynamic bodies do
// not collide with each other.
//
// # Visualizers
//
// Sessions opened in [GUI] or [TUI] mode render every step through a
// [Visualizer] registered with [Engine.RegisterVisualizer]. Keeping the
// window code outside this package keeps the engine free of cgo.
package physics

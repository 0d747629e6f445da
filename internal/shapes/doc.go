// Package shapes is the parametric shape library.
//
// Shapes are grouped into modules. A module holds an explicit table of
// shape classes keyed by name, filled in when the module is built and
// published with [Register]:
//
//   - [Module]: a named collection of classes with a display scale
//   - [Class]: a parametric shape with named examples
//   - [Part]: one named solid of a built shape, carrying a [Material]
//
// Two modules ship with the package: "anchorscad" with primitive solids and
// "anchorscad_models" with hardware built from the SDF object library.
//
// # Example
//
//	mod, _ := shapes.LookupModule("anchorscad")
//	cls, err := mod.Lookup("Cone")
//	parts, _ := cls.Parts("default")
package shapes

// Package jpsvis defines the documents read by the JPSvis crowd visualizer.
//
// Two documents are produced per conversion:
//
//   - Row: one line of the trajectory text file (ID FR X Y Z A B ANGLE COLOR)
//   - Geometry: the geometry.xml room description referenced from the
//     trajectory header
//
// JPSvis only accepts geometry coordinates in meters.
package jpsvis

// Package brep implements the Boolean-combination core of a boundary
// representation solid modeling kernel. Given two shells, each a
// watertight collection of trimmed rational-parametric faces, it
// produces a new shell representing the union or difference of the
// solids they bound.
//
// The package is organized around the passes a Boolean combination runs
// in sequence: build a per-face UV-BSP for classification (bsp.go), split
// every curve of each input shell against the other (splitter.go),
// generate intersection curves (left to the Surface/Intersector contract
// in surface.go), then trim every face of both operands against the
// opposite shell (trim.go) using the region-keep policy (policy.go), the
// chain avoider (chain.go), and the edge-normal probe (probe.go). boolean.go
// orchestrates all of the above; a simpler assembly path merges two
// shells without any intersection step at all.
package brep

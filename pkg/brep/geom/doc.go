// Package geom implements the host-side collaborators brep.Shell needs
// to run a Boolean: a planar rational-surface adapter, a plane-plane
// intersector, a segment-vs-all-faces search, a 3D edge classifier, and
// box/prism shell builders and triangulation for the kernel.Kernel
// binding in pkg/kernel/brep.
package geom

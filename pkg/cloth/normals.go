package cloth

import (
	"github.com/Faultbox/clothsim/pkg/math"
)

// faceNormal returns the unit normal of a triangle, or the zero vector for
// a degenerate one.
func faceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// FlatNormals computes one normal per triangle, assigned identically to all
// three of its vertices. It expects unshared vertices: call it on the
// positions and indices of a Duplicated mesh. The result has one entry per
// vertex.
func FlatNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := faceNormal(positions[a], positions[b], positions[c])
		normals[a] = n
		normals[b] = n
		normals[c] = n
	}
	return normals
}

// SmoothNormals accumulates each face normal into every incident vertex and
// normalizes the sums. It expects shared vertices. The result has one entry
// per vertex; vertices outside any triangle get a zero normal.
func SmoothNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := faceNormal(positions[a], positions[b], positions[c])
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

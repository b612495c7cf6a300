package planetview

import (
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// CameraMatrix builds the camera orientation for a chart centered on
// (ra, dec) in J2000. The columns are the camera axes in the reference
// frame: the third column is the line of sight, the second points along
// celestial north projected into the image plane, and the first
// completes the right-handed set (so RA increases to the left, matching
// the sky as seen from inside the celestial sphere).
func CameraMatrix(ra, dec float64) vecmath.Mat3 {
	col3 := vecmath.RadRec(1.0, ra, dec)
	up := vecmath.Perp(vecmath.Vec3{0, 0, 1}, col3)
	col2 := up.Hat()
	if up.Norm() < 1e-12 {
		// Looking straight at a celestial pole; any image-plane axis works.
		col2 = vecmath.Vec3{1, 0, 0}
	}
	col1 := col2.Cross(col3)
	return vecmath.Mat3{
		{col1[0], col2[0], col3[0]},
		{col1[1], col2[1], col3[1]},
		{col1[2], col2[2], col3[2]},
	}
}

package utils

import (
	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// WrapYaw normalises a yaw value in degrees to the range (-180, 180].
func WrapYaw(yaw float32) float32 {
	yaw = math32.Mod(yaw, 360)
	if yaw <= -180 {
		yaw += 360
	} else if yaw > 180 {
		yaw -= 360
	}
	return yaw
}

// GetFaceFromRotation returns the horizontal block face an actor with the given yaw is looking towards.
func GetFaceFromRotation(yaw float32) cube.Face {
	yaw = WrapYaw(yaw)
	if yaw <= -135 || yaw > 135 {
		return cube.FaceNorth
	} else if yaw <= -45 {
		return cube.FaceEast
	} else if yaw <= 45 {
		return cube.FaceSouth
	} else {
		return cube.FaceWest
	}
}

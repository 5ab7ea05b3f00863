package pushout

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func DiscOutOfPoint2(center *mgl64.Vec2, radius float64, p mgl64.Vec2) bool {
	c, ok := separation2(center.Sub(p), radius)
	if !ok {
		return false
	}
	*center = center.Add(c)
	return true
}

func DiscOutOfDisc2(center *mgl64.Vec2, radius float64, other mgl64.Vec2, otherRadius float64) bool {
	return DiscOutOfPoint2(center, radius+otherRadius, other)
}

// DiscsOutOfEachOther2 separates two discs.
func DiscsOutOfEachOther2(a *mgl64.Vec2, radiusA float64, b *mgl64.Vec2, radiusB float64, bStatic bool) bool {
	c, ok := separation2(a.Sub(*b), radiusA+radiusB)
	if !ok {
		return false
	}
	ca, cb := split2(c, bStatic)
	*a = a.Add(ca)
	*b = b.Add(cb)
	return true
}

func DiscOutOfBox2(center *mgl64.Vec2, radius float64, box geom.Box2) bool {
	c, ok := discBoxCorrection(*center, radius, box)
	if !ok {
		return false
	}
	*center = center.Add(c)
	return true
}

package color

import "math"

// 25^7
const pow25to7 = 6103515625.0

// CIEDE2000 returns the color difference between two L*a*b* colors given in
// real units (L in [0,100], a and b in [-128,128]), with kL = kC = kH = 1.
func CIEDE2000(l1, a1, b1, l2, a2, b2 float64) float64 {
	cStar1 := math.Sqrt(a1*a1 + b1*b1)
	cStar2 := math.Sqrt(a2*a2 + b2*b2)
	cStarAvg := (cStar1 + cStar2) / 2

	cStarAvg7 := pow7(cStarAvg)
	g := 0.5 * (1 - math.Sqrt(cStarAvg7/(cStarAvg7+pow25to7)))

	a1p := (1 + g) * a1
	a2p := (1 + g) * a2

	c1p := math.Sqrt(a1p*a1p + b1*b1)
	c2p := math.Sqrt(a2p*a2p + b2*b2)

	h1p := hueDegrees(b1, a1p)
	h2p := hueDegrees(b2, a2p)

	dLp := l2 - l1
	dCp := c2p - c1p

	hDiff := math.Abs(h1p - h2p)
	achromatic := c1p*c2p == 0

	var dhp float64
	switch {
	case achromatic:
		dhp = 0
	case hDiff <= 180:
		dhp = h2p - h1p
	case h2p <= h1p:
		dhp = h2p - h1p + 360
	default:
		dhp = h2p - h1p - 360
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(dhp*math.Pi/360)

	lpAvg := (l1 + l2) / 2
	cpAvg := (c1p + c2p) / 2

	// Mean hue only feeds terms scaled by dHp, which is zero when achromatic
	var hpAvg float64
	switch {
	case achromatic:
		hpAvg = 0
	case hDiff <= 180:
		hpAvg = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hpAvg = (h1p + h2p + 360) / 2
	default:
		hpAvg = (h1p + h2p - 360) / 2
	}

	lm50 := (lpAvg - 50) * (lpAvg - 50)
	sL := 1 + (0.015*lm50)/math.Sqrt(20+lm50)
	sC := 1 + 0.045*cpAvg

	t := 1 -
		0.17*math.Cos(radians(hpAvg-30)) +
		0.24*math.Cos(radians(2*hpAvg)) +
		0.32*math.Cos(radians(3*hpAvg+6)) -
		0.20*math.Cos(radians(4*hpAvg-63))
	sH := 1 + 0.015*t*cpAvg

	hTerm := (hpAvg - 275) / 25
	dTheta := 30 * math.Exp(-hTerm*hTerm)

	cpAvg7 := pow7(cpAvg)
	rC := 2 * math.Sqrt(cpAvg7/(cpAvg7+pow25to7))
	rT := -math.Sin(radians(2*dTheta)) * rC

	l := dLp / sL
	c := dCp / sC
	h := dHp / sH

	return math.Sqrt(l*l + c*c + h*h + rT*c*h)
}

// DeltaE is CIEDE2000 between two colors as given, without gamut projection
func DeltaE(x, y Lab) float64 {
	return CIEDE2000(
		x.L*LightnessScale, x.A*ChromaticScale, x.B*ChromaticScale,
		y.L*LightnessScale, y.A*ChromaticScale, y.B*ChromaticScale,
	)
}

// Distance projects both colors into the sRGB gamut and returns their CIEDE2000
// difference. Inputs are expected finite.
func Distance(x, y Lab) float64 {
	return DeltaE(x.Clamped(), y.Clamped())
}

// hueDegrees returns atan2(y, x) in degrees normalized to [0,360)
func hueDegrees(y, x float64) float64 {
	h := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func pow7(x float64) float64 {
	x3 := x * x * x
	return x3 * x3 * x
}

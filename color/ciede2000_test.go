package color

import (
	"math"
	"math/rand/v2"
	"testing"
)

// Sharma, Wu, Dalal (2005) reference pairs
var ciede2000Cases = []struct {
	l1, a1, b1 float64
	l2, a2, b2 float64
	want       float64
}{
	{50.0000, 2.6772, -79.7751, 50.0000, 0.0000, -82.7485, 2.0425},
	{50.0000, 3.1571, -77.2803, 50.0000, 0.0000, -82.7485, 2.8615},
	{50.0000, 2.8361, -74.0200, 50.0000, 0.0000, -82.7485, 3.4412},
	{50.0000, -1.3802, -84.2814, 50.0000, 0.0000, -82.7485, 1.0000},
	{50.0000, -1.1848, -84.8006, 50.0000, 0.0000, -82.7485, 1.0000},
	{50.0000, -0.9009, -85.5211, 50.0000, 0.0000, -82.7485, 1.0000},
	{50.0000, 0.0000, 0.0000, 50.0000, -1.0000, 2.0000, 2.3669},
	{50.0000, -1.0000, 2.0000, 50.0000, 0.0000, 0.0000, 2.3669},
	{50.0000, 2.4900, -0.0010, 50.0000, -2.4900, 0.0009, 7.1792},
	{50.0000, 2.4900, -0.0010, 50.0000, -2.4900, 0.0010, 7.1792},
	{50.0000, 2.4900, -0.0010, 50.0000, -2.4900, 0.0011, 7.2195},
	{50.0000, 2.4900, -0.0010, 50.0000, -2.4900, 0.0012, 7.2195},
	{50.0000, -0.0010, 2.4900, 50.0000, 0.0009, -2.4900, 4.8045},
	{50.0000, -0.0010, 2.4900, 50.0000, 0.0010, -2.4900, 4.8045},
	{50.0000, -0.0010, 2.4900, 50.0000, 0.0011, -2.4900, 4.7461},
	{50.0000, 2.5000, 0.0000, 50.0000, 0.0000, -2.5000, 4.3065},
	{50.0000, 2.5000, 0.0000, 73.0000, 25.0000, -18.0000, 27.1492},
	{50.0000, 2.5000, 0.0000, 61.0000, -5.0000, 29.0000, 22.8977},
	{50.0000, 2.5000, 0.0000, 56.0000, -27.0000, -3.0000, 31.9030},
	{50.0000, 2.5000, 0.0000, 58.0000, 24.0000, 15.0000, 19.4535},
	{50.0000, 2.5000, 0.0000, 50.0000, 3.1736, 0.5854, 1.0000},
	{50.0000, 2.5000, 0.0000, 50.0000, 3.2972, 0.0000, 1.0000},
	{50.0000, 2.5000, 0.0000, 50.0000, 1.8634, 0.5757, 1.0000},
	{50.0000, 2.5000, 0.0000, 50.0000, 3.2592, 0.3350, 1.0000},
	{60.2574, -34.0099, 36.2677, 60.4626, -34.1751, 39.4387, 1.2644},
	{63.0109, -31.0961, -5.8663, 62.8187, -29.7946, -4.0864, 1.2630},
	{61.2901, 3.7196, -5.3901, 61.4292, 2.2480, -4.9620, 1.8731},
	{35.0831, -44.1164, 3.7933, 35.0232, -40.0716, 1.5901, 1.8645},
	{22.7233, 20.0904, -46.6940, 23.0331, 14.9730, -42.5619, 2.0373},
	{36.4612, 47.8580, 18.3852, 36.2715, 50.5065, 21.2231, 1.4146},
	{90.8027, -2.0831, 1.4410, 91.1528, -1.6435, 0.0447, 1.4441},
	{90.9257, -0.5406, -0.9208, 88.6381, -0.8985, -0.7239, 1.5381},
	{6.7747, -0.2908, -2.4247, 5.8714, -0.0985, -2.2286, 0.6377},
	{2.0776, 0.0795, -1.1350, 0.9033, -0.0636, -0.5514, 0.9082},
}

func TestCIEDE2000_ReferenceVectors(t *testing.T) {
	for i, tc := range ciede2000Cases {
		got := CIEDE2000(tc.l1, tc.a1, tc.b1, tc.l2, tc.a2, tc.b2)
		if math.Abs(got-tc.want) > 0.0001 {
			t.Errorf("pair %d: expected %.4f, got %.6f", i+1, tc.want, got)
		}
	}
}

func TestDeltaE_NormalizedUnits(t *testing.T) {
	x := Lab{L: 0.5, A: 2.5 / ChromaticScale, B: 0}
	y := Lab{L: 0.73, A: 25.0 / ChromaticScale, B: -18.0 / ChromaticScale}

	if got := DeltaE(x, y); math.Abs(got-27.1492) > 0.0001 {
		t.Errorf("expected 27.1492, got %.6f", got)
	}
}

func randomLab(rng *rand.Rand) Lab {
	return Lab{
		L: rng.Float64(),
		A: rng.Float64()*2 - 1,
		B: rng.Float64()*2 - 1,
	}
}

func TestDistance_Reflexive(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		c := randomLab(rng)
		if d := Distance(c, c); d != 0 {
			t.Fatalf("distance(%v, %v) = %v, expected 0", c, c, d)
		}
	}
}

func TestDistance_SymmetricNonNegativeFinite(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		x, y := randomLab(rng), randomLab(rng)
		d1 := Distance(x, y)
		d2 := Distance(y, x)

		if math.IsNaN(d1) || math.IsInf(d1, 0) {
			t.Fatalf("distance(%v, %v) not finite: %v", x, y, d1)
		}
		if d1 < 0 {
			t.Fatalf("distance(%v, %v) negative: %v", x, y, d1)
		}
		if math.Abs(d1-d2) > 1e-9 {
			t.Fatalf("asymmetric: %v vs %v", d1, d2)
		}
	}
}

func TestDistance_UsesGamutClampedColors(t *testing.T) {
	// Saturated blue-ish Lab far outside sRGB
	out := Lab{L: 0.5, A: 0, B: -0.9}
	if out.InGamut() {
		t.Fatal("test color expected out of gamut")
	}

	clamped := out.Clamped()
	if got, want := Distance(out, clamped), 0.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("out-of-gamut color and its projection expected indistinguishable, got %v", got)
	}
	if DeltaE(out, clamped) < 1 {
		t.Error("raw delta expected to see the gamut projection")
	}
}

package sim

import (
	"math"
	"testing"
)

//splitSystem builds a two-particle carbon chain straddling the x
//boundary of a 10 A box, bonded with the c,c type (r0 1.529).
func splitSystem(x2 float64) *System {
	f := testForcefield()
	s := NewSystem("split")
	ct := f.ParticleTypes.GetExact("c", false)[0].Copy()
	s.ParticleTypes.Add(ct)
	s.Dim = &Dimension{Xhi: 10, Yhi: 10, Zhi: 10}
	mol := new(Molecule)
	a := &Particle{Type: ct, X: 9.9, Y: 5, Z: 5, Molecule: mol}
	b := &Particle{Type: ct, X: x2, Y: 5, Z: 5, Molecule: mol}
	s.AddParticle(a)
	s.AddParticle(b)
	if err := s.AddBond(a, b, f); err != nil {
		panic(err)
	}
	return s
}

func TestWrapIdempotence(Te *testing.T) {
	s := splitSystem(0.5)
	a := s.Particles.All()[0]
	a.X = 22.5 //two images out
	if err := s.Wrap(); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(a.X-2.5) > 1e-12 {
		Te.Fatalf("wrapped to %f, want 2.5", a.X)
	}
	before := [3]float64{a.X, a.Y, a.Z}
	if err := s.Wrap(); err != nil {
		Te.Fatal(err)
	}
	if before != [3]float64{a.X, a.Y, a.Z} {
		Te.Error("second wrap moved an in-box particle")
	}
}

func TestUnwrapAcrossBoundary(Te *testing.T) {
	s := splitSystem(1.429) //minimum image distance exactly 1.529
	a, b := s.Particles.All()[0], s.Particles.All()[1]
	if d := Distance(a, b); math.Abs(d-8.471) > 1e-9 {
		Te.Fatalf("setup wrong, direct distance %f", d)
	}
	if d := s.PBCDistance(a, b); math.Abs(d-1.529) > 1e-9 {
		Te.Fatalf("setup wrong, image distance %f", d)
	}
	ok, err := s.Unwrap()
	if err != nil {
		Te.Fatal(err)
	}
	if !ok {
		Te.Fatal("unwrap reported failure")
	}
	if d := Distance(a, b); math.Abs(d-1.529) > 1e-9 {
		Te.Errorf("direct distance %f after unwrap, want 1.529", d)
	}
	//wrapping again restores in-box positions
	if err := s.Wrap(); err != nil {
		Te.Fatal(err)
	}
	if a.X < 0 || a.X > 10 || b.X < 0 || b.X > 10 {
		Te.Error("particles left outside the box after re-wrap")
	}
}

func TestUnwrapFailureRewraps(Te *testing.T) {
	//a diagonal pair whose minimum-image bond is 7.1 A long: the
	//unwrap walk cannot shorten it, and the failed attempt must not
	//leave half-shifted images outside the box
	s := splitSystem(4.0)
	a, b := s.Particles.All()[0], s.Particles.All()[1]
	a.Y, a.Z = 9.9, 9.9
	b.Y, b.Z = 4.0, 4.0
	ok, err := s.Unwrap()
	if err != nil {
		Te.Fatal(err)
	}
	if ok {
		Te.Fatal("unwrap of a box-spanning bond reported success")
	}
	for _, p := range s.Particles.All() {
		if p.X < s.Dim.Xlo || p.X > s.Dim.Xhi ||
			p.Y < s.Dim.Ylo || p.Y > s.Dim.Yhi ||
			p.Z < s.Dim.Zlo || p.Z > s.Dim.Zhi {
			Te.Fatalf("particle %d left at (%v, %v, %v), outside the box", p.Tag(), p.X, p.Y, p.Z)
		}
	}
}

func TestQuality(Te *testing.T) {
	s := splitSystem(1.429)
	bad, err := s.Quality(0.1)
	if err != nil {
		Te.Fatal(err)
	}
	if bad != 0 {
		Te.Errorf("%d bad bonds in a relaxed system", bad)
	}
	stretched := splitSystem(3.0) //image distance 3.1
	bad, err = stretched.Quality(0.25)
	if err != nil {
		Te.Fatal(err)
	}
	if bad != 1 {
		Te.Errorf("%d bad bonds, want 1", bad)
	}
}

func TestRotateVector(Te *testing.T) {
	//quarter turn about z maps x onto y
	x, y, z := RotateVector(1, 0, 0, 0, 0, math.Pi/2)
	if math.Abs(x) > 1e-12 || math.Abs(y-1) > 1e-12 || math.Abs(z) > 1e-12 {
		Te.Errorf("got (%f, %f, %f), want (0, 1, 0)", x, y, z)
	}
}

func TestSystemRotateAboutParticle(Te *testing.T) {
	s := splitSystem(1.429)
	a, b := s.Particles.All()[0], s.Particles.All()[1]
	before := Distance(a, b)
	s.Rotate(a, 0, 0, math.Pi/3)
	if a.X != 9.9 || a.Y != 5 || a.Z != 5 {
		Te.Error("pivot particle moved")
	}
	if d := Distance(a, b); math.Abs(d-before) > 1e-9 {
		Te.Errorf("rotation changed a distance: %f -> %f", before, d)
	}
}

func TestDimensionResize(Te *testing.T) {
	d := &Dimension{Xhi: 10, Yhi: 10, Zhi: 10}
	d.SetDx(20)
	if d.Xlo != -5 || d.Xhi != 15 {
		Te.Errorf("SetDx did not recenter: [%f, %f]", d.Xlo, d.Xhi)
	}
	if d.Volume() != 20*10*10 {
		Te.Errorf("volume %f", d.Volume())
	}
	if !d.Valid() {
		Te.Error("valid box reported degenerate")
	}
	if (&Dimension{}).Valid() {
		Te.Error("zero box reported valid")
	}
}

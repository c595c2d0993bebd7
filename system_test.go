package sim

import (
	"math"
	"testing"
)

func TestAddConsolidatesTypes(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	other := testMonomer(f)
	other.ShiftParticles(5, 0, 0)
	s.Add(other, true)
	if n := s.Particles.Count(); n != 12 {
		Te.Fatalf("particle count %d, want 12", n)
	}
	if n := s.ParticleTypes.Count(); n != 2 {
		Te.Errorf("particle type count %d, want 2", n)
	}
	if n := s.BondTypes.Count(); n != 2 {
		Te.Errorf("bond type count %d, want 2", n)
	}
	if n := s.Molecules.Count(); n != 2 {
		Te.Errorf("molecule count %d, want 2", n)
	}
	//incoming particles got fresh, dense tags
	for i, p := range s.Particles.All() {
		if p.Tag() != i+1 {
			Te.Fatalf("tags not dense after merge")
		}
	}
	//the box grew to cover the shifted copy
	if s.Dim.Xhi < 7 {
		Te.Errorf("box did not grow: xhi %f", s.Dim.Xhi)
	}
	if err := s.CheckItems(); err != nil {
		Te.Error(err)
	}
}

func TestRemoveParticleCascades(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	s.AddParticleBonding()
	ps := s.Particles.All()
	if err := s.AddAngle(ps[2], ps[0], ps[1], f); err != nil {
		Te.Fatal(err)
	}
	//removing c1 kills its three bonds and the angle through it
	s.RemoveParticle(ps[0].Tag(), true)
	if n := s.Particles.Count(); n != 5 {
		Te.Fatalf("particle count %d, want 5", n)
	}
	if n := s.Bonds.Count(); n != 2 {
		Te.Errorf("bond count %d, want 2", n)
	}
	if n := s.Angles.Count(); n != 0 {
		Te.Errorf("angle count %d, want 0", n)
	}
	for i, p := range s.Particles.All() {
		if p.Tag() != i+1 {
			Te.Fatal("tags not dense after removal")
		}
	}
	if err := s.CheckItems(); err != nil {
		Te.Error(err)
	}
}

func TestAggregates(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	mass := 2*12.011 + 4*1.008
	if m := s.Mass(); math.Abs(m-mass) > 1e-9 {
		Te.Errorf("mass %f, want %f", m, mass)
	}
	s.Dim = &Dimension{Xhi: 10, Yhi: 10, Zhi: 10}
	want := mass / 6.02e23 / 1000 * 1e24
	if d := s.Density(); math.Abs(d-want) > 1e-12 {
		Te.Errorf("density %g, want %g", d, want)
	}

	for _, p := range s.Particles.All() {
		p.Charge = 0.1
		p.Vx = 1
	}
	if c := s.TotalCharge(); math.Abs(c-0.6) > 1e-12 {
		Te.Fatalf("total charge %f", c)
	}
	s.ZeroCharge()
	if c := s.TotalCharge(); math.Abs(c) > 1e-12 {
		Te.Errorf("charge %g after ZeroCharge", c)
	}
	s.ZeroVelocity()
	if v := s.TotalVelocity(); math.Abs(v[0]) > 1e-12 {
		Te.Errorf("velocity drift %g after ZeroVelocity", v[0])
	}
}

func TestMolecularWeights(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	other := testMonomer(f)
	other.ShiftParticles(5, 0, 0)
	s.Add(other, true)
	mn, mw, dispersity := s.MolecularWeights()
	mass := 2*12.011 + 4*1.008
	if math.Abs(mn-mass) > 1e-9 || math.Abs(mw-mass) > 1e-9 {
		Te.Errorf("mn %f mw %f, want %f both", mn, mw, mass)
	}
	if math.Abs(dispersity-1) > 1e-12 {
		Te.Errorf("dispersity %f for a monodisperse system", dispersity)
	}
}

func TestCenterAndShift(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	if err := s.Center("particles", [3]float64{0, 0, 0}, true); err != nil {
		Te.Fatal(err)
	}
	cog := s.CenterOfGravity()
	if math.Abs(cog[0])+math.Abs(cog[1])+math.Abs(cog[2]) > 1e-9 {
		Te.Errorf("center of gravity %v after centering", cog)
	}
	if err := s.Center("everything", [3]float64{}, false); err == nil {
		Te.Error("bad center target accepted")
	}
	s.ShiftToOrigin()
	if s.Dim.Xlo != 0 || s.Dim.Ylo != 0 || s.Dim.Zlo != 0 {
		Te.Error("box does not start at the origin")
	}
}

func TestLinkerTypes(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	head := s.Particles.All()[0]
	tail := s.Particles.All()[1]
	s.MakeLinkerTypes()
	if head.Type.Name != "HL@c" || tail.Type.Name != "TL@c" {
		Te.Fatalf("linker types %q %q", head.Type.Name, tail.Type.Name)
	}
	//hydrogens keep the plain type
	if s.Particles.All()[2].Type.Name != "h" {
		Te.Error("non-linker particle was renamed")
	}
	if n := s.ParticleTypes.Count(); n != 4 {
		Te.Errorf("particle type count %d, want 4", n)
	}
	s.RemoveLinkerTypes()
	if head.Type.Name != "c" || tail.Type.Name != "c" {
		Te.Errorf("types %q %q after RemoveLinkerTypes", head.Type.Name, tail.Type.Name)
	}
}

func TestCopyIndependence(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	c := s.Copy()
	c.ShiftParticles(100, 0, 0)
	if s.Particles.All()[0].X != 0 {
		Te.Error("shifting the copy moved the original")
	}
	//the copy's terms reference the copy's particles
	cb := c.Bonds.All()[0]
	if got, _ := c.Particles.Get(cb.A.Tag()); got != cb.A {
		Te.Error("copied bond references foreign particles")
	}
	if c.Particles.All()[0].Linker != "head" {
		Te.Error("linker mark lost in copy")
	}
	//tags are preserved
	for _, p := range s.Particles.All() {
		if q, ok := c.Particles.Get(p.Tag()); !ok || q.Type.Name != p.Type.Name {
			Te.Fatal("copy does not mirror the original's tags")
		}
	}
}

func TestConsolidateTypes(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	other := testMonomer(f)
	s.Add(other, false) //keep duplicate types on purpose
	if n := s.ParticleTypes.Count(); n != 4 {
		Te.Fatalf("expected duplicated types before consolidation, got %d", n)
	}
	s.ConsolidateTypes()
	if n := s.ParticleTypes.Count(); n != 2 {
		Te.Errorf("particle type count %d after consolidation", n)
	}
	if n := s.BondTypes.Count(); n != 2 {
		Te.Errorf("bond type count %d after consolidation", n)
	}
	//every particle points at the type actually stored under that tag
	for _, p := range s.Particles.All() {
		if got, ok := s.ParticleTypes.Get(p.Type.Tag()); !ok || got != p.Type {
			Te.Fatal("particle references a removed type")
		}
	}
	for _, b := range s.Bonds.All() {
		if got, ok := s.BondTypes.Get(b.Type.Tag()); !ok || got != b.Type {
			Te.Fatal("bond references a removed type")
		}
	}
}

package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestReplicate(Te *testing.T) {
	f := testForcefield()
	mono := testMonomer(f)
	rnd := rand.New(rand.NewSource(42))
	s, err := Replicate([]*System{mono}, []int{4}, nil, 0.5, rnd)
	if err != nil {
		Te.Fatal(err)
	}
	if s.Particles.Count() != 24 || s.Bonds.Count() != 20 {
		Te.Fatalf("%d particles, %d bonds", s.Particles.Count(), s.Bonds.Count())
	}
	if s.Molecules.Count() != 4 {
		Te.Errorf("molecule count %d, want 4", s.Molecules.Count())
	}
	if s.ParticleTypes.Count() != 2 {
		Te.Errorf("type count %d after consolidation", s.ParticleTypes.Count())
	}
	//the box is the density-derived cube
	if math.Abs(s.Dim.Dx()-s.Dim.Dy()) > 1e-9 || math.Abs(s.Dim.Dx()-s.Dim.Dz()) > 1e-9 {
		Te.Error("box is not cubic")
	}
	wantV := 4 * mono.Mass() / avogadro / 0.5 * 1e24
	if v := s.Dim.Volume(); math.Abs(v-wantV)/wantV > 1e-9 {
		Te.Errorf("box volume %f, want %f", v, wantV)
	}
	//density comes out as requested
	if d := s.Density(); math.Abs(d-0.5) > 1e-9 {
		Te.Errorf("density %f, want 0.5", d)
	}
	if err := s.CheckItems(); err != nil {
		Te.Error(err)
	}
	if s.PairStyle != mono.PairStyle || s.FFClass != mono.FFClass {
		Te.Error("styles not inherited from the reference")
	}
}

func TestReplicateArgumentChecks(Te *testing.T) {
	if _, err := Replicate(nil, nil, nil, 0.5, nil); err == nil {
		Te.Error("empty reference list accepted")
	}
	f := testForcefield()
	mono := testMonomer(f)
	if _, err := Replicate([]*System{mono}, []int{1, 2}, nil, 0.5, nil); err == nil {
		Te.Error("mismatched counts accepted")
	}
}

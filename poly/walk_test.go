package poly

import (
	"math/rand"
	"testing"

	sim "github.com/gosimm/gosimm"
)

func growthForcefield() *sim.Forcefield {
	f := sim.NewForcefield("tiny", "1")
	f.PairStyle = "lj"
	f.BondStyle = "harmonic"
	f.AngleStyle = "harmonic"
	f.DihedralStyle = "harmonic"
	f.ImproperStyle = "harmonic"
	f.ParticleTypes.Add(&sim.ParticleType{Name: "c", Elem: "C", Mass: 12.011, Epsilon: 0.066, Sigma: 3.5})
	f.ParticleTypes.Add(&sim.ParticleType{Name: "h", Elem: "H", Mass: 1.008, Epsilon: 0.03, Sigma: 2.5})
	f.BondTypes.Add(&sim.BondType{Name: "c,c", K: 268, R0: 1.529})
	f.BondTypes.Add(&sim.BondType{Name: "c,h", K: 340, R0: 1.09})
	f.AngleTypes.Add(&sim.AngleType{Name: "c,c,c", K: 58.35, Theta0: 112.7})
	f.AngleTypes.Add(&sim.AngleType{Name: "c,c,h", K: 37.5, Theta0: 110.7})
	f.AngleTypes.Add(&sim.AngleType{Name: "h,c,h", K: 33.0, Theta0: 107.8})
	f.DihedralTypes.Add(&sim.DihedralType{Name: "X,c,c,X", K: 0.3, D: 1, N: 3})
	return f
}

//growthMonomer is a CH2-CH2 repeat unit, first carbon head, second
//carbon tail.
func growthMonomer(f *sim.Forcefield, name string) *sim.System {
	s := sim.NewSystem(name)
	s.FFClass = f.Class
	s.PairStyle = f.PairStyle
	s.BondStyle = f.BondStyle
	s.AngleStyle = f.AngleStyle
	s.DihedralStyle = f.DihedralStyle
	s.ImproperStyle = f.ImproperStyle
	ct := f.ParticleTypes.GetExact("c", false)[0].Copy()
	ht := f.ParticleTypes.GetExact("h", false)[0].Copy()
	s.ParticleTypes.Add(ct)
	s.ParticleTypes.Add(ht)
	mol := new(sim.Molecule)
	add := func(t *sim.ParticleType, x, y, z float64, linker string) *sim.Particle {
		p := &sim.Particle{Type: t, X: x, Y: y, Z: z, Linker: linker, Molecule: mol}
		s.AddParticle(p)
		return p
	}
	c1 := add(ct, 0, 0, 0, "head")
	c2 := add(ct, 1.5, 0, 0, "tail")
	hs := [][4]float64{{-0.5, 0.9, 0, 0}, {-0.5, -0.9, 0, 0}, {2.0, 0.9, 0, 0}, {2.0, -0.9, 0, 0}}
	var par [4]*sim.Particle
	for i, h := range hs {
		par[i] = add(ht, h[0], h[1], h[2], "")
	}
	pairs := [][2]*sim.Particle{{c1, c2}, {c1, par[0]}, {c1, par[1]}, {c2, par[2]}, {c2, par[3]}}
	for _, b := range pairs {
		if err := s.AddBond(b[0], b[1], f); err != nil {
			panic(err)
		}
	}
	s.SetBox(2.0, false)
	return s
}

func countLinkers(s *sim.System, role string) int {
	n := 0
	for _, p := range s.Particles.All() {
		if p.Linker == role {
			n++
		}
	}
	return n
}

func TestRandomWalk(Te *testing.T) {
	f := growthForcefield()
	mono := growthMonomer(f, "pe")
	chain, err := RandomWalk(mono, 3, f, rand.New(rand.NewSource(7)))
	if err != nil {
		Te.Fatal(err)
	}
	if chain.Particles.Count() != 18 {
		Te.Fatalf("particle count %d, want 18", chain.Particles.Count())
	}
	//5 bonds per unit plus 2 backbone joints
	if chain.Bonds.Count() != 17 {
		Te.Errorf("bond count %d, want 17", chain.Bonds.Count())
	}
	//each joint completes 6 angles; the first joint creates 13
	//dihedrals, the second 14 since it also reaches back through the
	//first backbone bond
	if chain.Angles.Count() != 12 {
		Te.Errorf("angle count %d, want 12", chain.Angles.Count())
	}
	if chain.Dihedrals.Count() != 27 {
		Te.Errorf("dihedral count %d, want 27", chain.Dihedrals.Count())
	}
	if chain.Molecules.Count() != 1 {
		Te.Errorf("molecule count %d, want 1", chain.Molecules.Count())
	}
	//one free head and one free tail remain
	if countLinkers(chain, "head") != 1 || countLinkers(chain, "tail") != 1 {
		Te.Errorf("%d heads and %d tails on the finished chain",
			countLinkers(chain, "head"), countLinkers(chain, "tail"))
	}
	//the template was not consumed
	if mono.Particles.Count() != 6 {
		Te.Error("growth modified the template")
	}
	if err := chain.CheckItems(); err != nil {
		Te.Error(err)
	}
}

func TestRandomWalkSingleUnit(Te *testing.T) {
	f := growthForcefield()
	mono := growthMonomer(f, "pe")
	chain, err := RandomWalk(mono, 1, f, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if chain.Particles.Count() != 6 || chain.Bonds.Count() != 5 {
		Te.Error("single unit chain is not a plain copy")
	}
	if _, err := RandomWalk(mono, 0, f, nil); err == nil {
		Te.Error("zero-length chain accepted")
	}
}

func TestCopolymerPattern(Te *testing.T) {
	f := growthForcefield()
	a := growthMonomer(f, "a")
	b := growthMonomer(f, "b")
	chain, err := Copolymer([]*sim.System{a, b}, 4, nil, f, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if chain.Particles.Count() != 24 {
		Te.Fatalf("particle count %d, want 24", chain.Particles.Count())
	}
	if chain.Bonds.Count() != 23 {
		Te.Errorf("bond count %d, want 23", chain.Bonds.Count())
	}
	//shared type names collapse during the merges
	if chain.ParticleTypes.Count() != 2 {
		Te.Errorf("type count %d, want 2", chain.ParticleTypes.Count())
	}
	if chain.Molecules.Count() != 1 {
		Te.Errorf("molecule count %d", chain.Molecules.Count())
	}

	//blocky pattern: 2 of a, then 1 of b, wrapping
	chain, err = Copolymer([]*sim.System{a, b}, 3, []int{2, 1}, f, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if chain.Particles.Count() != 18 {
		Te.Errorf("particle count %d, want 18", chain.Particles.Count())
	}

	//degenerate patterns are rejected up front instead of looping
	if _, err := Copolymer([]*sim.System{a, b}, 3, []int{0, 0}, f, nil); err == nil {
		Te.Error("all-zero pattern accepted")
	}
	if _, err := Copolymer([]*sim.System{a, b}, 3, []int{-1, 2}, f, nil); err == nil {
		Te.Error("negative pattern entry accepted")
	}

	//a monomer without linkers is rejected
	plain := growthMonomer(f, "plain")
	for _, p := range plain.Particles.All() {
		p.Linker = ""
	}
	if _, err := Copolymer([]*sim.System{plain}, 2, nil, f, nil); err == nil {
		Te.Error("linkerless monomer accepted")
	}
}

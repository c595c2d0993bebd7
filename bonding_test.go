package sim

import (
	"math"
	"testing"
)

//Joining two monomers across a new backbone bond must complete the
//bonded-term neighborhood: one angle per outer neighbor on each side,
//dihedrals one bond further out in both directions, and the cross
//dihedrals spanning the new bond.
func TestMakeNewBondsCompleteness(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	other := testMonomer(f)
	other.ShiftParticles(4.0, 0, 0)

	tail := s.Particles.All()[1] //c2
	s.Add(other, true)
	var head *Particle
	for _, p := range s.Particles.All()[6:] {
		if p.Linker == "head" {
			head = p
			break
		}
	}
	if head == nil {
		Te.Fatal("merged system lost the head linker")
	}

	nbonds := s.Bonds.Count()
	if err := s.MakeNewBonds(tail, head, f, true, true, false); err != nil {
		Te.Fatal(err)
	}
	if s.Bonds.Count() != nbonds+1 {
		Te.Errorf("bond count %d, want %d", s.Bonds.Count(), nbonds+1)
	}
	//tail has 3 other neighbors (c1, 2 h) and so does head: 6 angles
	if s.Angles.Count() != 6 {
		Te.Errorf("angle count %d, want 6", s.Angles.Count())
	}
	//two-out dihedrals: 2 through each backbone carbon; cross
	//dihedrals: 3 neighbors x 3 neighbors = 9; 13 total
	if s.Dihedrals.Count() != 13 {
		Te.Errorf("dihedral count %d, want 13", s.Dihedrals.Count())
	}
	//every term resolved to a type
	for _, a := range s.Angles.All() {
		if a.Type == nil {
			Te.Fatal("angle without type")
		}
	}
	for _, d := range s.Dihedrals.All() {
		if d.Type == nil {
			Te.Fatal("dihedral without type")
		}
	}
	//the two molecules were merged and the spare one removed
	if s.Molecules.Count() != 1 {
		Te.Errorf("molecule count %d after merge, want 1", s.Molecules.Count())
	}
	if tail.Molecule != head.Molecule {
		Te.Error("joined particles sit in different molecules")
	}
	if err := s.CheckItems(); err != nil {
		Te.Error(err)
	}
}

func TestMakeNewBondsIdempotentTerms(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	//joining two particles that cannot be typed fails cleanly
	o := &Particle{Type: &ParticleType{Name: "o"}, X: 5}
	s.ParticleTypes.Add(o.Type)
	s.AddParticle(o)
	c1 := s.Particles.All()[0]
	if err := s.MakeNewBonds(c1, o, f, true, true, false); err == nil {
		Te.Error("expected failure for unresolvable backbone bond")
	}
}

func TestAddParticleBondedTo(Te *testing.T) {
	f := testForcefield()
	s := NewSystem("growth")
	ct := f.ParticleTypes.GetExact("c", false)[0].Copy()
	ht := f.ParticleTypes.GetExact("h", false)[0].Copy()
	s.ParticleTypes.Add(ct)
	s.ParticleTypes.Add(ht)
	mol := new(Molecule)
	p0 := &Particle{Type: ct, X: 1, Y: 1, Z: 1, Molecule: mol}
	s.AddParticle(p0)

	//a placeless particle lands on the sphere of radius sep around p0
	p, err := s.AddParticleBondedTo(Placeless(ht), p0, f, 1.09)
	if err != nil {
		Te.Fatal(err)
	}
	if d := Distance(p, p0); math.Abs(d-1.09) > 1e-9 {
		Te.Errorf("new particle at distance %f, want 1.09", d)
	}
	if p.Molecule != mol {
		Te.Error("new particle did not inherit the molecule")
	}
	if s.Bonds.Count() != 1 {
		Te.Fatalf("bond count %d, want 1", s.Bonds.Count())
	}

	//a second hydrogen completes an angle through p0
	if _, err := s.AddParticleBondedTo(Placeless(ht), p0, f, 1.09); err != nil {
		Te.Fatal(err)
	}
	if s.Angles.Count() != 1 {
		Te.Errorf("angle count %d, want 1", s.Angles.Count())
	}
	if at := s.Angles.All()[0].Type; at.Name != "h,c,h" {
		Te.Errorf("angle resolved to %s, want h,c,h", at.Name)
	}

	//particles arriving with coordinates keep them
	q := &Particle{Type: ht, X: 3, Y: 1, Z: 1}
	if _, err := s.AddParticleBondedTo(q, p0, f, 1.09); err != nil {
		Te.Fatal(err)
	}
	if q.X != 3 || q.Y != 1 || q.Z != 1 {
		Te.Error("preset coordinates were overwritten")
	}

	//a particle legitimately sitting at the origin is not relocated
	o := &Particle{Type: ht}
	if _, err := s.AddParticleBondedTo(o, p0, f, 1.09); err != nil {
		Te.Fatal(err)
	}
	if o.X != 0 || o.Y != 0 || o.Z != 0 {
		Te.Error("origin particle was relocated")
	}
}

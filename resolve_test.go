package sim

import "testing"

func TestBondResolutionImportsFromForcefield(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	//testMonomer bonds c-c once and c-h four times: both library
	//entries must have been copy-imported exactly once
	if n := s.BondTypes.Count(); n != 2 {
		Te.Fatalf("system holds %d bond types, want 2", n)
	}
	for _, bt := range s.BondTypes.All() {
		lib := f.BondTypes.GetExact(bt.Name, false)
		if len(lib) != 1 {
			Te.Fatalf("imported type %s not in library", bt.Name)
		}
		if lib[0] == bt {
			Te.Errorf("type %s was shared, not copied", bt.Name)
		}
		if lib[0].K != bt.K || lib[0].R0 != bt.R0 {
			Te.Errorf("coefficients of %s lost in import", bt.Name)
		}
	}
}

func TestBondResolutionMiss(Te *testing.T) {
	f := testForcefield()
	s := NewSystem("miss")
	ot := &ParticleType{Name: "o", Elem: "O", Mass: 15.999}
	s.ParticleTypes.Add(ot)
	a := &Particle{Type: ot}
	b := &Particle{Type: ot}
	s.AddParticle(a)
	s.AddParticle(b)
	if err := s.AddBond(a, b, f); err == nil {
		Te.Error("bonding with no o,o entry anywhere should fail")
	}
	if s.Bonds.Count() != 0 {
		Te.Error("failed AddBond left a bond behind")
	}
	if err := s.AddBond(a, a, f); err == nil {
		Te.Error("self bond accepted")
	}
}

func TestWildcardSpecificityRanking(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	s.AddParticleBonding()
	ps := s.Particles.All()
	c1, c2 := ps[0], ps[1]
	h1a := ps[2]

	//a degenerate tuple (a==c) adds nothing
	if err := s.AddDihedral(c1, c2, c1, c2, f); err != nil {
		Te.Fatal(err)
	}
	if s.Dihedrals.Count() != 0 {
		Te.Fatal("degenerate dihedral was stored")
	}
	//h,c,c,h only matches the wildcard entry
	h2a := ps[4]
	if err := s.AddDihedral(h1a, c1, c2, h2a, f); err != nil {
		Te.Fatal(err)
	}
	if s.Dihedrals.Count() != 1 {
		Te.Fatal("dihedral not added")
	}
	dt := s.Dihedrals.All()[0].Type
	if dt.Name != "X,c,c,X" {
		Te.Errorf("resolved to %s, want the wildcard entry", dt.Name)
	}

	//resolving the same tuple again must reuse the imported type, not
	//import a second copy
	if err := s.AddDihedral(ps[3], c1, c2, h2a, f); err != nil {
		Te.Fatal(err)
	}
	if n := s.DihedralTypes.Count(); n != 1 {
		Te.Errorf("system holds %d dihedral types, want 1", n)
	}
	if s.Dihedrals.All()[1].Type != dt {
		Te.Error("second resolution imported a new type")
	}

	//four distinct backbone carbons: the exact c,c,c,c library entry
	//must beat X,c,c,X even though the wildcard is already imported
	c3 := &Particle{Type: c1.Type, X: 3.0, Molecule: c1.Molecule}
	c4 := &Particle{Type: c1.Type, X: 4.5, Molecule: c1.Molecule}
	s.AddParticle(c3)
	s.AddParticle(c4)
	if err := s.AddDihedral(c1, c2, c3, c4, f); err != nil {
		Te.Fatal(err)
	}
	last := s.Dihedrals.All()[s.Dihedrals.Count()-1]
	if last.Type.Name != "c,c,c,c" {
		Te.Errorf("resolved to %s, want the exact entry", last.Type.Name)
	}
	if n := s.DihedralTypes.Count(); n != 2 {
		Te.Errorf("system holds %d dihedral types, want 2", n)
	}
}

func TestBondWildcardRanking(Te *testing.T) {
	f := testForcefield()
	s := NewSystem("rank")
	ct := f.ParticleTypes.GetExact("c", false)[0].Copy()
	s.ParticleTypes.Add(ct)
	//a wildcard entry already in the system must not shadow the more
	//specific library entry
	s.BondTypes.Add(&BondType{Name: "X,c", K: 1, R0: 9.9})
	a := &Particle{Type: ct}
	b := &Particle{Type: ct, X: 1.5}
	s.AddParticle(a)
	s.AddParticle(b)
	if err := s.AddBond(a, b, f); err != nil {
		Te.Fatal(err)
	}
	bt := s.Bonds.All()[0].Type
	if bt.Name != "c,c" {
		Te.Errorf("resolved to %s, want c,c", bt.Name)
	}
	if bt.R0 != 1.529 {
		Te.Errorf("imported R0 %v, want 1.529", bt.R0)
	}
	if n := s.BondTypes.Count(); n != 2 {
		Te.Errorf("system holds %d bond types, want 2", n)
	}
}

func TestEquivalenceAliases(Te *testing.T) {
	f := testForcefield()
	s := NewSystem("alias")
	//an opls-style type whose bonded interactions borrow the plain
	//carbon parameters
	ct := &ParticleType{Name: "CT", Elem: "C", Mass: 12.011,
		EqBond: "c", EqAngle: "c", EqDihedral: "c", EqImproper: "c"}
	s.ParticleTypes.Add(ct)
	a := &Particle{Type: ct}
	b := &Particle{Type: ct, X: 1.5}
	s.AddParticle(a)
	s.AddParticle(b)
	if err := s.AddBond(a, b, f); err != nil {
		Te.Fatal(err)
	}
	if bt := s.Bonds.All()[0].Type; bt.Name != "c,c" {
		Te.Errorf("alias resolution picked %s, want c,c", bt.Name)
	}
}

func TestImproperResolutionIsOptional(Te *testing.T) {
	f := testForcefield()
	s := testMonomer(f)
	s.AddParticleBonding()
	ps := s.Particles.All()
	//c,h,h,h matches nothing in the library: silently skipped
	if err := s.AddImproper(ps[0], ps[2], ps[3], ps[4], f); err != nil {
		Te.Fatal(err)
	}
	if s.Impropers.Count() != 0 {
		Te.Error("unresolvable improper was stored")
	}
	//c1 centered with c2, h, h matches c,c,h,h whatever the end order
	if err := s.AddImproper(ps[0], ps[2], ps[1], ps[3], f); err != nil {
		Te.Fatal(err)
	}
	if s.Impropers.Count() != 1 {
		Te.Error("resolvable improper was not stored")
	}
}

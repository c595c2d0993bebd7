package sim

//Shared fixtures: a tiny united-style force field and an ethylene-like
//monomer with head and tail linker carbons, enough to exercise type
//resolution, growth, and the codecs.

func testForcefield() *Forcefield {
	f := NewForcefield("tiny", "1")
	f.PairStyle = "lj"
	f.BondStyle = "harmonic"
	f.AngleStyle = "harmonic"
	f.DihedralStyle = "harmonic"
	f.ImproperStyle = "harmonic"
	f.ParticleTypes.Add(&ParticleType{Name: "c", Elem: "C", Mass: 12.011, Epsilon: 0.066, Sigma: 3.5})
	f.ParticleTypes.Add(&ParticleType{Name: "h", Elem: "H", Mass: 1.008, Epsilon: 0.03, Sigma: 2.5})
	f.BondTypes.Add(&BondType{Name: "c,c", K: 268, R0: 1.529})
	f.BondTypes.Add(&BondType{Name: "c,h", K: 340, R0: 1.09})
	f.AngleTypes.Add(&AngleType{Name: "c,c,c", K: 58.35, Theta0: 112.7})
	f.AngleTypes.Add(&AngleType{Name: "c,c,h", K: 37.5, Theta0: 110.7})
	f.AngleTypes.Add(&AngleType{Name: "h,c,h", K: 33.0, Theta0: 107.8})
	f.DihedralTypes.Add(&DihedralType{Name: "X,c,c,X", K: 0.3, D: 1, N: 3})
	f.DihedralTypes.Add(&DihedralType{Name: "c,c,c,c", K: 0.13, D: -1, N: 3})
	f.ImproperTypes.Add(&ImproperType{Name: "c,c,h,h", K: 1.1})
	return f
}

//testMonomer builds a six-particle CH2-CH2 repeat unit. The first
//carbon is the head linker, the second the tail. Only bonds are added;
//angles and dihedrals are left to the growth machinery.
func testMonomer(f *Forcefield) *System {
	s := NewSystem("mono")
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

	mol := new(Molecule)
	add := func(t *ParticleType, x, y, z float64, linker string) *Particle {
		p := &Particle{Type: t, X: x, Y: y, Z: z, Linker: linker, Molecule: mol}
		s.AddParticle(p)
		return p
	}
	c1 := add(ct, 0, 0, 0, "head")
	c2 := add(ct, 1.5, 0, 0, "tail")
	h1a := add(ht, -0.5, 0.9, 0, "")
	h1b := add(ht, -0.5, -0.9, 0, "")
	h2a := add(ht, 2.0, 0.9, 0, "")
	h2b := add(ht, 2.0, -0.9, 0, "")

	pairs := [][2]*Particle{{c1, c2}, {c1, h1a}, {c1, h1b}, {c2, h2a}, {c2, h2b}}
	for _, pr := range pairs {
		if err := s.AddBond(pr[0], pr[1], f); err != nil {
			panic(err)
		}
	}
	s.SetBox(2.0, false)
	return s
}

package poly

import (
	"math"
	"math/rand"

	sim "github.com/gosimm/gosimm"
)

//separation at which a new monomer's head is placed from the chain
//tail before any relaxation.
const bondSep = 1.5

//linkerParticle returns the first particle marked with the given
//linker role, or nil.
func linkerParticle(s *sim.System, role string) *sim.Particle {
	for _, p := range s.Particles.All() {
		if p.Linker == role {
			return p
		}
	}
	return nil
}

//randomDirection picks a uniform point on the unit sphere. A nil rnd
//grows along +x, which keeps short test chains deterministic.
func randomDirection(rnd *rand.Rand) (x, y, z float64) {
	if rnd == nil {
		return 1, 0, 0
	}
	phi := rnd.Float64() * 2 * math.Pi
	theta := math.Acos(rnd.Float64()*2 - 1)
	return math.Sin(theta) * math.Cos(phi), math.Sin(theta) * math.Sin(phi), math.Cos(theta)
}

//attach shifts the incoming monomer so its head linker lands bondSep
//away from the chain tail, merges it into the chain, and bonds
//tail to head with full angle and dihedral completion. It returns the
//new chain tail.
func attach(chain *sim.System, monomer *sim.System, tail *sim.Particle,
	f *sim.Forcefield, rnd *rand.Rand) (*sim.Particle, error) {

	head := linkerParticle(monomer, "head")
	next := linkerParticle(monomer, "tail")
	if head == nil || next == nil {
		return nil, errMissingLinkers(monomer)
	}
	dx, dy, dz := randomDirection(rnd)
	monomer.ShiftParticles(tail.X+bondSep*dx-head.X,
		tail.Y+bondSep*dy-head.Y, tail.Z+bondSep*dz-head.Z)
	chain.Add(monomer, true)
	err := chain.MakeNewBonds(tail, head, f, true, true, chain.FFClass == "2")
	if err != nil {
		return nil, err
	}
	//the joint is no longer a chain end
	tail.Linker = ""
	head.Linker = ""
	return next, nil
}

func errMissingLinkers(m *sim.System) error {
	return &growthError{msg: "monomer " + m.Name + " lacks head and tail linker particles"}
}

type growthError struct {
	msg  string
	deco []string
}

func (err *growthError) Error() string { return err.msg }

func (err *growthError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//RandomWalk grows a homopolymer of nmon repeat units from the monomer
//template, whose particles must include one marked Linker "head" and
//one marked "tail". The template itself is never modified. Bonded
//terms across each new backbone bond are resolved against f. Chain
//geometry is a plain random walk, no excluded volume.
func RandomWalk(monomer *sim.System, nmon int, f *sim.Forcefield, rnd *rand.Rand) (*sim.System, error) {
	if nmon < 1 {
		return nil, &growthError{msg: "cannot grow a chain of less than one unit"}
	}
	if linkerParticle(monomer, "head") == nil || linkerParticle(monomer, "tail") == nil {
		return nil, errMissingLinkers(monomer)
	}
	chain := monomer.Copy()
	chain.AddParticleBonding()
	tail := linkerParticle(chain, "tail")
	for i := 1; i < nmon; i++ {
		next, err := attach(chain, monomer.Copy(), tail, f, rnd)
		if err != nil {
			return nil, err
		}
		tail = next
	}
	return chain, nil
}

//Copolymer grows a chain of nmon repeat units cycling through the
//monomer templates: pattern[i] consecutive units of monomers[i], then
//the next template, wrapping around until the chain is complete. A
//nil pattern alternates one unit of each.
func Copolymer(monomers []*sim.System, nmon int, pattern []int, f *sim.Forcefield, rnd *rand.Rand) (*sim.System, error) {
	if len(monomers) == 0 {
		return nil, &growthError{msg: "no monomer templates given"}
	}
	if pattern == nil {
		pattern = make([]int, len(monomers))
		for i := range pattern {
			pattern[i] = 1
		}
	}
	if len(pattern) != len(monomers) {
		return nil, &growthError{msg: "pattern length does not match monomer list"}
	}
	positive := false
	for _, n := range pattern {
		if n < 0 {
			return nil, &growthError{msg: "negative pattern entry"}
		}
		if n > 0 {
			positive = true
		}
	}
	if !positive {
		return nil, &growthError{msg: "pattern places no units"}
	}
	for _, m := range monomers {
		if linkerParticle(m, "head") == nil || linkerParticle(m, "tail") == nil {
			return nil, errMissingLinkers(m)
		}
	}
	chain := monomers[0].Copy()
	chain.AddParticleBonding()
	tail := linkerParticle(chain, "tail")
	inserted := 1
	block := 1 //units of the current template already placed
	for i := 0; inserted < nmon; {
		if block >= pattern[i] {
			i = (i + 1) % len(monomers)
			block = 0
			continue
		}
		next, err := attach(chain, monomers[i].Copy(), tail, f, rnd)
		if err != nil {
			return nil, err
		}
		tail = next
		inserted++
		block++
	}
	return chain, nil
}

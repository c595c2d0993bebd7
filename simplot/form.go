//Package simplot renders the functional forms of force-field
//parameter types as energy curves.
package simplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	sim "github.com/gosimm/gosimm"
)

func basicFormPlot(title, xlabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Energy (kcal/mol)"
	p.Add(plotter.NewGrid())
	return p
}

//Form samples f at n evenly spaced points in [xmin, xmax] and saves
//the curve as plotname.png.
func Form(f func(float64) float64, xmin, xmax float64, n int, title, xlabel, plotname string) error {
	if n < 2 {
		return fmt.Errorf("simplot: need at least 2 sample points, got %d", n)
	}
	if xmax <= xmin {
		return fmt.Errorf("simplot: empty sample range [%v, %v]", xmin, xmax)
	}
	pts := make(plotter.XYs, n)
	step := (xmax - xmin) / float64(n-1)
	for i := range pts {
		x := xmin + float64(i)*step
		pts[i].X = x
		pts[i].Y = f(x)
	}
	p := basicFormPlot(title, xlabel)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, fmt.Sprintf("%s.png", plotname))
}

//PairForm plots the nonbonded potential of a particle type between
//rmin and rmax Angstroms.
func PairForm(pt *sim.ParticleType, style string, rmin, rmax float64, plotname string) error {
	f := func(r float64) float64 { return pt.PairEnergy(style, r) }
	return Form(f, rmin, rmax, 200, pt.Name, "r (A)", plotname)
}

//BondForm plots the stretching potential of a bond type.
func BondForm(bt *sim.BondType, style string, rmin, rmax float64, plotname string) error {
	f := func(r float64) float64 { return bt.Energy(style, r) }
	return Form(f, rmin, rmax, 200, bt.Name, "r (A)", plotname)
}

//AngleForm plots the bending potential of an angle type over a range
//of angles in degrees.
func AngleForm(at *sim.AngleType, style string, thetaMin, thetaMax float64, plotname string) error {
	f := func(theta float64) float64 { return at.Energy(style, theta) }
	return Form(f, thetaMin, thetaMax, 200, at.Name, "theta (degrees)", plotname)
}

//DihedralForm plots the torsional potential of a dihedral type over a
//range of angles in degrees.
func DihedralForm(dt *sim.DihedralType, style string, phiMin, phiMax float64, plotname string) error {
	f := func(phi float64) float64 { return dt.Energy(style, phi) }
	return Form(f, phiMin, phiMax, 200, dt.Name, "phi (degrees)", plotname)
}

//ImproperForm plots the out-of-plane potential of an improper type.
func ImproperForm(it *sim.ImproperType, style string, xmin, xmax float64, plotname string) error {
	f := func(x float64) float64 { return it.Energy(style, x) }
	return Form(f, xmin, xmax, 200, it.Name, "x (degrees)", plotname)
}

package sim

import "testing"

func TestStoreTagAssignment(Te *testing.T) {
	st := NewStore[*ParticleType]()
	for i := 0; i < 3; i++ {
		pt, err := st.Add(&ParticleType{Name: "t"})
		if err != nil {
			Te.Fatal(err)
		}
		if pt.Tag() != i+1 {
			Te.Errorf("expected tag %d, got %d", i+1, pt.Tag())
		}
	}
	if st.Count() != 3 || st.MaxTag() != 3 {
		Te.Errorf("count %d maxtag %d after 3 adds", st.Count(), st.MaxTag())
	}
	//explicit tags are honored, duplicates rejected
	if _, err := st.Add(&ParticleType{tag: 10, Name: "t10"}); err != nil {
		Te.Fatal(err)
	}
	if _, err := st.Add(&ParticleType{tag: 10, Name: "dup"}); err == nil {
		Te.Error("duplicate tag accepted")
	}
	//the next auto tag continues past the highest seen
	next, _ := st.Add(&ParticleType{Name: "t11"})
	if next.Tag() != 11 {
		Te.Errorf("auto tag after explicit 10 should be 11, got %d", next.Tag())
	}
	if _, ok := st.Get(99); ok {
		Te.Error("lookup of absent tag succeeded")
	}
}

func TestStoreRemoveAndRenumber(Te *testing.T) {
	st := NewStore[*ParticleType]()
	var kept *ParticleType
	for i := 0; i < 5; i++ {
		pt := &ParticleType{Name: "t"}
		st.Add(pt)
		if i == 4 {
			kept = pt
		}
	}
	st.Remove(2, false)
	st.Remove(4, false)
	if st.Count() != 3 {
		Te.Fatalf("count %d after two removals", st.Count())
	}
	st.Renumber()
	tags := []int{}
	for _, v := range st.All() {
		tags = append(tags, v.Tag())
	}
	for i, tag := range tags {
		if tag != i+1 {
			Te.Errorf("tags not dense after renumber: %v", tags)
			break
		}
	}
	//iteration order survives renumbering
	if kept.Tag() != 3 {
		Te.Errorf("last survivor should hold tag 3, has %d", kept.Tag())
	}
}

func TestTypeStoreNameMatching(Te *testing.T) {
	ts := NewTypeStore[*AngleType]()
	ts.Add(&AngleType{Name: "c,c,h"})
	if got := ts.GetExact("c,c,h", false); len(got) != 1 {
		Te.Error("forward exact lookup failed")
	}
	if got := ts.GetExact("h,c,c", false); len(got) != 1 {
		Te.Error("reversed exact lookup failed")
	}
	if got := ts.GetExact("c,h,c", false); len(got) != 0 {
		Te.Error("scrambled name matched")
	}

	ts.Add(&AngleType{Name: "X,c,X"})
	if got := ts.GetName("h,c,h", Wildcard, false); len(got) != 1 {
		Te.Errorf("wildcard lookup found %d types, want 1", len(got))
	}
	//both the exact entry and the wildcard one match c,c,h
	if got := ts.GetName("c,c,h", Wildcard, false); len(got) != 2 {
		Te.Errorf("lookup found %d types, want 2", len(got))
	}
}

func TestImproperNameMatching(Te *testing.T) {
	ts := NewTypeStore[*ImproperType]()
	ts.Add(&ImproperType{Name: "c,o,n,h"})
	//the first token is the center, the other three are unordered
	if got := ts.GetName("c,h,o,n", "", true); len(got) != 1 {
		Te.Error("permuted ends did not match")
	}
	if got := ts.GetName("o,c,n,h", "", true); len(got) != 0 {
		Te.Error("different center matched")
	}
}

func TestSortBySpecificity(Te *testing.T) {
	a := &DihedralType{Name: "X,c,c,X"}
	b := &DihedralType{Name: "c,c,c,c"}
	c := &DihedralType{Name: "X,c,c,c"}
	cand := []*DihedralType{a, b, c}
	sortBySpecificity(cand)
	if cand[0] != b || cand[1] != c || cand[2] != a {
		Te.Errorf("specificity order wrong: %s %s %s",
			cand[0].Name, cand[1].Name, cand[2].Name)
	}
	//ties keep their original order
	d := &DihedralType{Name: "X,h,h,X"}
	cand = []*DihedralType{a, d}
	sortBySpecificity(cand)
	if cand[0] != a {
		Te.Error("stable sort reordered equal candidates")
	}
}

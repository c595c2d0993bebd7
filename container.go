/*
 * container.go, part of gosimm.
 *
 * Copyright 2024 The gosimm developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package sim

import (
	"sort"
	"strings"
)

//Wildcard is the token that matches any single name token during
//wildcard lookups in a TypeStore.
const Wildcard = "X"

//tagged is satisfied by everything a Store can hold.
type tagged interface {
	Tag() int
	setTag(int)
}

//Store holds items indexed by positive integer tags. Tags are assigned
//on Add when the item carries none, lookups by tag are O(1), and
//iteration follows insertion order. The zero value is not usable, use
//NewStore.
type Store[T tagged] struct {
	items map[int]T
	order []int
	high  int
}

//NewStore returns an empty ready-to-use Store.
func NewStore[T tagged]() *Store[T] {
	return &Store[T]{items: make(map[int]T)}
}

//Add inserts v. If v has no tag (tag<=0) the next free tag is assigned.
//Adding an item whose tag is already taken replaces nothing and returns
//an error. It returns the stored item.
func (s *Store[T]) Add(v T) (T, error) {
	t := v.Tag()
	if t <= 0 {
		s.high++
		t = s.high
		v.setTag(t)
	} else if _, taken := s.items[t]; taken {
		var zero T
		return zero, newError("tag %d already in use", t)
	}
	if t > s.high {
		s.high = t
	}
	s.items[t] = v
	s.order = append(s.order, t)
	return v, nil
}

//Get returns the item with the given tag, or false if no such item.
func (s *Store[T]) Get(tag int) (T, bool) {
	v, ok := s.items[tag]
	return v, ok
}

//Count returns the number of items held.
func (s *Store[T]) Count() int {
	return len(s.items)
}

//Remove deletes the item with the given tag. When renumber is true the
//remaining items are immediately re-tagged densely (1..Count in
//iteration order); when false tags are left untouched, leaving a gap,
//and a later Renumber restores density. Removing an absent tag is a
//no-op.
func (s *Store[T]) Remove(tag int, renumber bool) {
	if _, ok := s.items[tag]; !ok {
		return
	}
	delete(s.items, tag)
	for i, t := range s.order {
		if t == tag {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if renumber {
		s.Renumber()
	}
}

//RemoveAll empties the store.
func (s *Store[T]) RemoveAll() {
	s.items = make(map[int]T)
	s.order = s.order[:0]
	s.high = 0
}

//Renumber re-tags all items densely, 1..Count, preserving iteration
//order.
func (s *Store[T]) Renumber() {
	items := make(map[int]T, len(s.items))
	for i, t := range s.order {
		v := s.items[t]
		v.setTag(i + 1)
		items[i+1] = v
		s.order[i] = i + 1
	}
	s.items = items
	s.high = len(s.order)
}

//All returns the items in iteration order. The returned slice is
//freshly allocated, mutating it does not affect the store.
func (s *Store[T]) All() []T {
	out := make([]T, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, s.items[t])
	}
	return out
}

//MaxTag returns the largest tag ever assigned.
func (s *Store[T]) MaxTag() int {
	return s.high
}

//named is satisfied by parameter types stored in a TypeStore. TypeName
//is the canonical comma-joined name and ReverseName its reversed
//counterpart ("a,b,c" -> "c,b,a").
type named interface {
	tagged
	TypeName() string
	ReverseName() string
}

//TypeStore is a Store of named parameter types with name lookup on top
//of tag lookup.
type TypeStore[T named] struct {
	Store[T]
}

//NewTypeStore returns an empty ready-to-use TypeStore.
func NewTypeStore[T named]() *TypeStore[T] {
	return &TypeStore[T]{Store[T]{items: make(map[int]T)}}
}

//GetName returns, in insertion order, every stored type whose name (or
//reversed name) matches the comma-joined query. When wildcard is
//non-empty, stored tokens equal to it match any query token. When
//improper is true the first token is held fixed and the remaining three
//are matched in any order, as improper ends are interchangeable.
func (s *TypeStore[T]) GetName(name, wildcard string, improper bool) []T {
	want := strings.Split(name, ",")
	var out []T
	for _, tag := range s.order {
		v := s.items[tag]
		if matchTokens(strings.Split(v.TypeName(), ","), want, wildcard, improper) ||
			matchTokens(strings.Split(v.ReverseName(), ","), want, wildcard, improper) {
			out = append(out, v)
		}
	}
	return out
}

//GetExact is GetName without wildcard matching.
func (s *TypeStore[T]) GetExact(name string, improper bool) []T {
	return s.GetName(name, "", improper)
}

func matchTokens(have, want []string, wildcard string, improper bool) bool {
	if len(have) != len(want) {
		return false
	}
	if improper && len(have) == 4 {
		if !tokenEq(have[0], want[0], wildcard) {
			return false
		}
		return permuteMatch(have[1:], want[1:], wildcard)
	}
	for i := range have {
		if !tokenEq(have[i], want[i], wildcard) {
			return false
		}
	}
	return true
}

//permuteMatch reports whether have can be matched one-to-one against
//want in some order. Both slices have length 3 here, brute force is fine.
func permuteMatch(have, want []string, wildcard string) bool {
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range perms {
		if tokenEq(have[0], want[p[0]], wildcard) &&
			tokenEq(have[1], want[p[1]], wildcard) &&
			tokenEq(have[2], want[p[2]], wildcard) {
			return true
		}
	}
	return false
}

func tokenEq(have, want, wildcard string) bool {
	if wildcard != "" && have == wildcard {
		return true
	}
	return have == want
}

//sortBySpecificity orders candidate types by how few wildcard tokens
//their names carry, most specific first. The sort is stable so that
//ties keep store order.
func sortBySpecificity[T named](types []T) {
	sort.SliceStable(types, func(i, j int) bool {
		return strings.Count(types[i].TypeName(), Wildcard) <
			strings.Count(types[j].TypeName(), Wildcard)
	})
}

package utils

import "fmt"

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	var ii int
	for i := rmin; i <= rmax; i++ {
		r[ii] = i
		ii++
	}
	return
}

func (I Index) Copy() (C Index) {
	C = make(Index, len(I))
	copy(C, I)
	return
}

// Complement returns the members of 0..N-1 not present in I, preserving
// ascending order. I must be a set of valid indices into 0..N-1.
func (I Index) Complement(N int) (C Index) {
	var (
		member = make([]bool, N)
	)
	for _, i := range I {
		if i < 0 || i > N-1 {
			panic(fmt.Errorf("index %d out of range [0,%d)", i, N))
		}
		member[i] = true
	}
	C = make(Index, 0, N-len(I))
	for i := 0; i < N; i++ {
		if !member[i] {
			C = append(C, i)
		}
	}
	return
}

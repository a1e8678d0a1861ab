package neuralnet

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Range is a closed interval of weight values. Lo and Hi may be given in
// either order.
type Range struct {
	Lo, Hi float64
}

func (r Range) bounds() (float64, float64) {
	if r.Lo > r.Hi {
		return r.Hi, r.Lo
	}
	return r.Lo, r.Hi
}

func (r Range) String() string {
	lo, hi := r.bounds()
	return fmt.Sprintf("[%g, %g]", lo, hi)
}

// NewSource returns a seeded source. Every randomized operation takes one so
// runs can be reproduced; passing nil uses the process-wide generator.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func uniform(src rand.Source, lo, hi float64) distuv.Uniform {
	if lo > hi {
		lo, hi = hi, lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: src}
}

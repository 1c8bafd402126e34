package crossstitch

import (
	"math/rand/v2"

	"github.com/muesli/clusters"
	"gonum.org/v1/gonum/floats"
)

// seedStream is the second PCG word; only Options.Seed is user-facing.
const seedStream = 0x9e3779b97f4a7c15

type partition struct {
	labels  []int // cluster index per observation
	centers []clusters.Coordinates
	inertia float64 // sum of squared distances to assigned centers
}

// partitionKMeans splits points into exactly k non-empty clusters. Each run is
// seeded with k-means++ from a single PCG stream, so the result depends only on
// the points, k and seed. Requires 0 < k <= len(points).
func partitionKMeans(points clusters.Observations, k int, seed uint64, restarts, maxIter int) partition {
	rng := rand.New(rand.NewPCG(seed, seedStream))
	var best partition
	for run := range restarts {
		p := lloyd(points, seedCenters(points, k, rng), maxIter)
		if run == 0 || p.inertia < best.inertia {
			best = p
		}
	}
	return best
}

// seedCenters picks k initial centers with D² weighting. Once only duplicates
// of chosen points remain, the lowest unchosen index is taken.
func seedCenters(points clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	n := len(points)
	cc := make(clusters.Clusters, 0, k)
	chosen := make([]bool, n)
	d2 := make([]float64, n)

	pick := func(idx int) {
		chosen[idx] = true
		center := append(clusters.Coordinates(nil), points[idx].Coordinates()...)
		cc = append(cc, clusters.Cluster{Center: center})
		for i, p := range points {
			d := sqDist(p.Coordinates(), center)
			if len(cc) == 1 || d < d2[i] {
				d2[i] = d
			}
		}
	}

	pick(rng.IntN(n))
	for len(cc) < k {
		idx := -1
		if total := floats.Sum(d2); total > 0 {
			r := rng.Float64() * total
			for i, d := range d2 {
				if d == 0 {
					continue
				}
				idx = i
				r -= d
				if r < 0 {
					break
				}
			}
		} else {
			for i, c := range chosen {
				if !c {
					idx = i
					break
				}
			}
		}
		pick(idx)
	}
	return cc
}

func lloyd(points clusters.Observations, cc clusters.Clusters, maxIter int) partition {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	for range maxIter {
		changes := 0
		cc.Reset()
		for i, p := range points {
			ci := cc.Nearest(p)
			cc[ci].Append(p)
			if labels[i] != ci {
				labels[i] = ci
				changes++
			}
		}
		changes += fillEmpty(points, cc, labels)
		if changes == 0 {
			break
		}
		cc.Recenter()
	}

	p := partition{
		labels:  labels,
		centers: make([]clusters.Coordinates, len(cc)),
	}
	for ci := range cc {
		p.centers[ci] = cc[ci].Center
	}
	for i, pt := range points {
		p.inertia += sqDist(pt.Coordinates(), p.centers[labels[i]])
	}
	return p
}

// fillEmpty hands every empty cluster the point farthest from its own center,
// taken from a cluster that keeps at least one point. Returns the number of
// points moved.
func fillEmpty(points clusters.Observations, cc clusters.Clusters, labels []int) int {
	moved := 0
	for ci := range cc {
		if len(cc[ci].Observations) > 0 {
			continue
		}
		best, bestD := -1, -1.0
		for i, p := range points {
			from := labels[i]
			if len(cc[from].Observations) < 2 {
				continue
			}
			if d := sqDist(p.Coordinates(), cc[from].Center); d > bestD {
				best, bestD = i, d
			}
		}
		if best < 0 {
			continue
		}
		from := labels[best]
		labels[best] = ci
		cc[from].Observations = membersOf(points, labels, from)
		cc[ci].Observations = clusters.Observations{points[best]}
		cc[ci].Center = append(clusters.Coordinates(nil), points[best].Coordinates()...)
		moved++
	}
	return moved
}

func membersOf(points clusters.Observations, labels []int, ci int) clusters.Observations {
	var out clusters.Observations
	for i, p := range points {
		if labels[i] == ci {
			out = append(out, p)
		}
	}
	return out
}

func sqDist(a, b clusters.Coordinates) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

package diarization

// cluster2 partitions feature vectors into two clusters with a fixed
// number of k-means iterations. Centroids are seeded from data points
// (the first vector and the vector farthest from it), so identical input
// always produces identical labels. Degenerate input (identical
// vectors, or fewer points than clusters) still yields a valid
// labeling: distance ties go to the lower cluster index and an emptied
// cluster keeps its previous centroid.
func cluster2(features [][]float64, iterations int) []int {
	labels := make([]int, len(features))
	if len(features) < 2 {
		return labels
	}

	centroids := [2][]float64{
		append([]float64(nil), features[0]...),
		append([]float64(nil), features[farthestFrom(features, 0)]...),
	}

	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i, v := range features {
			c := nearest(centroids, v)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}

		for c := 0; c < 2; c++ {
			mean := meanOf(features, labels, c)
			if mean != nil {
				centroids[c] = mean
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	return labels
}

// farthestFrom returns the index of the vector with the greatest squared
// distance from features[from]. Ties keep the lowest index.
func farthestFrom(features [][]float64, from int) int {
	best, bestDist := 0, -1.0
	for i, v := range features {
		if i == from {
			continue
		}
		if d := sqDist(features[from], v); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearest(centroids [2][]float64, v []float64) int {
	if sqDist(centroids[1], v) < sqDist(centroids[0], v) {
		return 1
	}
	return 0
}

// meanOf returns the mean vector of the members of cluster c, or nil if
// the cluster is empty.
func meanOf(features [][]float64, labels []int, c int) []float64 {
	var mean []float64
	n := 0
	for i, v := range features {
		if labels[i] != c {
			continue
		}
		if mean == nil {
			mean = make([]float64, len(v))
		}
		for j := range v {
			mean[j] += v[j]
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	return mean
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

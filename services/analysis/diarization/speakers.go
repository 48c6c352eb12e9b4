// Package diarization assigns speaker roles to transcript segments via
// unsupervised clustering and aggregates the resulting speaker turns.
package diarization

import (
	"github.com/callsight/backend/services/analysis/consts"
	"github.com/callsight/backend/services/analysis/entity"
)

type Clusterer struct {
	extractor FeatureExtractor
}

func NewClusterer(extractor FeatureExtractor) *Clusterer {
	if extractor == nil {
		extractor = TimingFeatures{}
	}
	return &Clusterer{extractor: extractor}
}

// IdentifySpeakers partitions segments into the two call roles. The
// returned slice matches the input ordering exactly. Fewer than two
// segments is not enough data to cluster, so every element comes back
// Unknown.
func (c *Clusterer) IdentifySpeakers(segments []entity.Segment) []entity.SpeakerRole {
	roles := make([]entity.SpeakerRole, len(segments))
	if len(segments) < consts.ClusterCount {
		for i := range roles {
			roles[i] = entity.SpeakerUnknown
		}
		return roles
	}

	features := make([][]float64, len(segments))
	for i, seg := range segments {
		features[i] = c.extractor.Extract(seg)
	}

	labels := cluster2(features, consts.ClusterIterations)
	sales := salespersonCluster(labels)

	for i, label := range labels {
		if label == sales {
			roles[i] = entity.SpeakerSalesperson
		} else {
			roles[i] = entity.SpeakerCustomer
		}
	}
	return roles
}

// salespersonCluster picks which cluster gets the Salesperson label: the
// one with more members, cluster 0 on a tie. A production system should
// weight by speaking duration or vocabulary instead; member count is the
// contracted heuristic.
func salespersonCluster(labels []int) int {
	counts := [2]int{}
	for _, l := range labels {
		counts[l]++
	}
	if counts[1] > counts[0] {
		return 1
	}
	return 0
}

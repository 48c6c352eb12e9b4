package consts

const (
	// Speaker clustering
	ClusterCount      = 2
	ClusterIterations = 10

	// Feature vector dimension produced by the default extractor
	FeatureDim = 8
)

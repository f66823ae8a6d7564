// Package distance compares flattened pose frames.
//
// Every metric is exposed through Similarity with one orientation: larger
// means more alike. L2 is negated for that purpose.
//
//	sim, _ := distance.Similarity(distance.MetricCosine)
//	s := sim(frameA, frameB)
package distance

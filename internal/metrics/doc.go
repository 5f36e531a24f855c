// Package metrics records release and stage metrics.
//
// Components receive a Recorder and never check for nil; NoopRecorder is the
// default when no metrics textfile is configured. PrometheusRecorder backs the
// real implementation and WriteTextfile exports its registry in the node
// exporter textfile format, since a release run is too short-lived to be
// scraped.
//
// Observer adapts a Recorder to the stage observer interface so the release
// executor feeds metrics without knowing about them.
package metrics

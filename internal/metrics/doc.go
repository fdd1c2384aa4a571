// Package metrics provides run and stage observability for cistage.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// cost nothing unless enabled. PrometheusRecorder registers its collectors
// on a private registry; CI jobs usually persist it with WriteTextfile for
// the node exporter textfile collector:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	runner := ci.NewRunner(inv, registry).WithRecorder(rec)
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics

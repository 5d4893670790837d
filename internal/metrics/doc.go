// Package metrics counts command outcomes with Prometheus collectors.
//
// Metrics implements command.Observer. Collectors live in a private registry
// so tests and multiple sessions never collide with the global default, and
// WriteTextfile dumps them in the node_exporter textfile format.
package metrics

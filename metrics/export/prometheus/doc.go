// Package prometheus renders goIdentity counters in the Prometheus text
// exposition format. Counters are named goidentity_*_total; the session
// validation latency is a histogram. Callers mount Handler themselves.
package prometheus

// Package msgs defines the telemetry events a host monitor publishes
// about a tester, and the Typed envelope carrying them.
package msgs

// Package tep drives an external Tennessee Eastman process simulator.
//
// A Session takes a disturbance series (one row per three-minute sample, one
// column per IDV channel), derives the number of one-second engine steps,
// calls the Engine and labels the returned 52 columns as XMEAS(1..41) and
// XMV(1..11) with a minute-based time index. The variable and disturbance
// reference catalogs are built with every session.
//
// The Engine is the only contract to implement. ExecEngine runs a simulator
// binary; tests substitute fakes.
package tep

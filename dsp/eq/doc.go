// Package eq implements a three-band real-time equalizer: a Butterworth
// low-cut, an RBJ peaking band and a Butterworth high-cut, run in series on
// each of two independent channels.
//
// The control side publishes [Parameters] through a [ParameterStore]. The
// audio side, a [Processor], picks up the latest snapshot at the start of
// every block, recomputes coefficients when something changed and swaps them
// into the running filters without touching their state, so automation does
// not click.
//
// Nothing reachable from the Processor's block methods locks, allocates or
// logs.
package eq

// Package design provides the coefficient designers behind the equalizer
// bands.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing: RBJ cookbook sections
// ([Lowpass], [Highpass], [Peak]) and even-order Butterworth cascades
// ([ButterworthLPInto], [ButterworthHPInto]) built from them. The cascades
// are written into caller-owned storage and do not allocate.
package design

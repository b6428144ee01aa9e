// Package biquad provides the second-order IIR section used by every band
// of the equalizer.
//
// A [Section] implements Direct Form II Transposed processing for the
// [Coefficients] it holds. Coefficients are plain values: replacing them with
// [Section.SetCoefficients] keeps the delay line, so parameter changes made
// while audio is streaming do not reset the filter.
//
// Block processing is dispatched to the best kernel registered for the
// running CPU. Coefficient design lives in dsp/filter/design.
package biquad

// Package response measures the magnitude response of block filters, either
// analytically from their coefficients or from a recorded impulse response.
package response

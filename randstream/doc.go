// SPDX-License-Identifier: EPL-2.0

// Package randstream replays a pre-generated file of integers as a circular,
// seekable random source.
//
// Every draw consumes exactly one value and advances the cursor by one,
// wrapping at the end of the file. The same file and seed always yield the
// same sequence, which is what makes a degraded corpus reproducible.
//
// Two conventions map a raw value r onto a bound n:
//
//	RoundingBounded       floor(n * r / MaxInt64), clamped to n-1
//	RoundingInclusiveMax  floor((n-1) * r / MaxInt64)
//
// Existing corpora were produced with each of them. The arithmetic is done in
// float64 so those corpora are reproduced bit for bit.
package randstream

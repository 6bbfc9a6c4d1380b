// Package packing computes the display scale and one-dimensional packing
// offset of every entity in a sorted sequence.
//
// # Scale
//
// An entity's scale is the square root of its metric value, so on-screen
// area is proportional to magnitude. Non-positive values give scale 0: the
// entity collapses to a point but still occupies a slot in the sequence.
// With [WithReference] all scales are divided by the reference entity's
// scale, which then has scale 1.
//
// # Packing Distance
//
// Neighbouring circles rest on a common baseline and touch with a small
// clearance g between their facing edges. For radii ra and rb the
// centre-to-centre distance along the axis is
//
//	x = sqrt((ra + g + rb)² - (ra - rb)²)
//
// which is the horizontal leg of the right triangle formed by the two
// centres when their bottoms, not their centres, are aligned. By default
// g = min(ra, rb) * 0.1; [WithGapRatio] changes the factor and
// [WithFixedGap] switches to an absolute clearance. When one of the two
// has scale 0 the distance is the other's radius plus the clearance.
//
// # Offsets
//
// Offsets accumulate left to right from 0 at the first sorted entity, so
// the difference between neighbours always equals [Delta] of their scales.
// They carry no meaning outside the sequence they were built for.
package packing

// Package ephemeris computes approximate heliocentric positions of the
// planets from slowly varying mean orbital elements, following Paul
// Schlyter's "How to compute planetary positions". Accuracy is of the
// order of an arc minute, plenty for seeding a simulation at a date.
//
// The frame is heliocentric ecliptic of date: X towards the vernal
// equinox, Z towards the north ecliptic pole. Distances are AU, angles
// degrees.
package ephemeris

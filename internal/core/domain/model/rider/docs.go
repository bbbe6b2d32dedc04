// Package rider models couriers as seen by the geospatial rider directory: a position
// reported by the rider, an availability status and the orders it currently carries.
package rider

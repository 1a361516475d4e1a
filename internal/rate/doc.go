// Package rate implements fixed-window counters on Redis. A window opens on
// the first hit and closes when its TTL lapses; hits inside the window never
// extend it. The increment-and-expire pair is the only primitive, so two
// concurrent hits can never both observe the pre-increment count.
package rate

// Package zone predicts the rotating terror zone without asking the game server.
//
// The active zone is a pure function of wall-clock time: time is cut into
// 15-minute windows, each window is turned into a seed, and the seed is fed
// through the classic 214013/2531011 linear congruential step used by the
// game. The result indexes an ordered Catalog of zone names.
//
// Engine holds nothing but an immutable Catalog, so a single value can be
// shared between goroutines without locking. It never reads the clock:
// every query takes the reference time in Unix milliseconds.
package zone

// Package layout arranges events into week and month grids.
//
// The grids are plain values: rendering, colors and terminal widths belong
// to the display package. Today is passed in through Options and never read
// from the clock.
package layout

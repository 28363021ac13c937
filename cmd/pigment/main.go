// Pigment - representative colour palettes from photographs
//
// Pigment samples an image, clusters its colours in CIE Lab and prints a
// small palette, keeping thin blue accents that plain k-means tends to lose.
package main

import "github.com/jmylchreest/pigment/internal/cli"

func main() {
	cli.Execute()
}

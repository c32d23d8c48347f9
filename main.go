// Command trigeff computes trigger efficiencies over signal sample grids.
package main

import (
	"github.com/llp-triggers/trigeff/cmd"
)

func main() {
	cmd.Execute()
}

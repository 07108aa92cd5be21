// The main package for the realvalue harvester executable.
package main

import (
	"github.com/prathibha999-pd/realvalueAI/cmd"
)

// main defers all execution to the Cobra CLI layer.
func main() {
	cmd.Execute()
}

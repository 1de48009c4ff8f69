// main is the entry point for the repograde CLI.
package main

import (
	"github.com/gradeflow/repograde/cmd"
	"github.com/gradeflow/repograde/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run repograde", err)
	}
}

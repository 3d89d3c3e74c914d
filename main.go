// Package main is the entry point for the readiness CLI.
package main

import (
	"github.com/iipmodel/readiness/cmd"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run readiness", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Cannot stop profiling", err)
	}
}

package main

import "github.com/dagrunner/dagrunner/internal/build"

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	build.Version = version
	if err := newRootCmd().Execute(); err != nil {
		exitWithError(err)
	}
}

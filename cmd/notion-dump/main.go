/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"log"
	"os"

	"github.com/toothbrush/notion-dump/internal/syncerr"
)

func main() {
	if err := Execute(); err != nil {
		log.Print(err)
		os.Exit(syncerr.ExitCode(err))
	}
}

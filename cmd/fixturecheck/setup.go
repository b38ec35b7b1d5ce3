package main

import (
	"io"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func setupLogger(w io.Writer, verbose bool) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))

	if !verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger
}

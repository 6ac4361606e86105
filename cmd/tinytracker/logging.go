package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:          os.Stderr,
	NoColor:      !term.IsTerminal(int(os.Stderr.Fd())),
	PartsExclude: []string{zerolog.TimestampFieldName},
}).With().Logger()

func logErrf(format string, args ...any) {
	logger.Warn().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func logErrln(args ...any) {
	logger.Warn().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/flux/log"
)

func Example_text() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace))

	logger.Trace("assign", slog.String("name", "x"), slog.Int("line", 1))
	// Output:
	// level=TRACE msg=assign name=x line=1
}

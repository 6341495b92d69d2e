package render

import "github.com/abhisek/papergen/internal/logger"

// Options configures the renderers.
type Options struct {
	// FontDir holds LiberationSans-Regular.ttf and LiberationSans-Bold.ttf.
	// When empty or incomplete the PDF falls back to core Helvetica.
	FontDir string

	Log *logger.Logger
}

func (o Options) logger() *logger.Logger {
	if o.Log == nil {
		return logger.Nop()
	}
	return o.Log
}

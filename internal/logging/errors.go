package logging

import (
	"errors"

	"github.com/rs/zerolog"
)

// fielder is implemented by errors that carry structured context
type fielder interface {
	error
	Fields() map[string]interface{}
}

// LogError logs err with msg, adding the context fields of the first error
// in its chain that carries any
func LogError(logger zerolog.Logger, err error, msg string) {
	if err == nil {
		return
	}

	event := logger.Error().Err(err)
	var f fielder
	if errors.As(err, &f) {
		for k, v := range f.Fields() {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

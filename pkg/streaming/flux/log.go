package flux

import (
	"errors"

	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/logging"
)

// Log writes every signal passing through this point of the chain to the
// subscription's logger at info level, tagged with category. Nothing is
// written unless the subscription was started WithLogger.
func (f *Flux[T]) Log(category string) *Flux[T] {
	return derive(f, logged(category, f.src))
}

func logged[T any](category string, src source[T]) source[T] {
	return func(ex *execution, emit func(T) bool) error {
		l := ex.logger.With().Str(logging.FieldCategory, category).Logger()
		logSignal(l, "onSubscribe").Msg("onSubscribe")

		stopped := false
		err := src(ex, func(v T) bool {
			logSignal(l, "onNext").Interface("value", v).Msg("onNext")
			if !emit(v) {
				stopped = true
				return false
			}
			return true
		})

		cause := ex.cause()
		switch {
		case err != nil && !errors.Is(err, gferrors.ErrCanceled):
			logSignal(l, "onError").Err(err).Msg("onError")
		case cause != nil && !errors.Is(cause, gferrors.ErrCanceled) && !errors.Is(cause, errStopped):
			logSignal(l, "onError").Err(cause).Msg("onError")
		case stopped || cause != nil:
			logSignal(l, "cancel").Msg("cancel")
		default:
			logSignal(l, "onComplete").Msg("onComplete")
		}
		return err
	}
}

func logSignal(l zerolog.Logger, signal string) *zerolog.Event {
	return l.Info().Str(logging.FieldSignal, signal)
}

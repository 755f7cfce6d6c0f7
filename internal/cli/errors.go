package cli

import (
	"errors"

	"github.com/alexanderramin/wisync/internal/domain"
)

var kindLabels = map[domain.Kind]string{
	domain.KindValidation: "invalid input",
	domain.KindParse:      "could not read plan",
	domain.KindCreate:     "create failed",
	domain.KindLink:       "link failed",
	domain.KindNotFound:   "not found",
	domain.KindUpdate:     "update rejected",
	domain.KindNetwork:    "network error",
	domain.KindBusy:       "busy",
	domain.KindStale:      "discarded",
}

// Describe renders err for the terminal. Classified errors are prefixed
// with their kind.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrCancelled) {
		return "cancelled"
	}
	var de *domain.Error
	var partial *domain.PartialCreateError
	if !errors.As(err, &de) && !errors.As(err, &partial) {
		return err.Error()
	}
	return kindLabels[domain.KindOf(err)] + ": " + err.Error()
}

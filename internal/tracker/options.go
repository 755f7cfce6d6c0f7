package tracker

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options tunes a Client. The zero value is usable.
type Options struct {
	APIVersion        string
	Tag               string        // ownership tag written on create and used by ListFeatures
	DeleteConcurrency int           // max in-flight deletes
	Pace              time.Duration // pause between creates in a hierarchy run
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

const (
	DefaultAPIVersion        = "7.0"
	DefaultTag               = "wisync"
	DefaultDeleteConcurrency = 4
)

// LoadOptions reads tracker options from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadOptions() Options {
	opts := Options{
		APIVersion:        DefaultAPIVersion,
		Tag:               DefaultTag,
		DeleteConcurrency: DefaultDeleteConcurrency,
	}
	if v := strings.TrimSpace(os.Getenv("WISYNC_ADO_API_VERSION")); v != "" {
		opts.APIVersion = v
	}
	if v := strings.TrimSpace(os.Getenv("WISYNC_TAG")); v != "" {
		opts.Tag = v
	}
	if v := os.Getenv("WISYNC_DELETE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.DeleteConcurrency = n
		}
	}
	if v := os.Getenv("WISYNC_ADO_PACE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Pace = time.Duration(n) * time.Millisecond
		}
	}
	return opts
}

func (o Options) withDefaults() Options {
	if o.APIVersion == "" {
		o.APIVersion = DefaultAPIVersion
	}
	if o.Tag == "" {
		o.Tag = DefaultTag
	}
	if o.DeleteConcurrency <= 0 {
		o.DeleteConcurrency = DefaultDeleteConcurrency
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

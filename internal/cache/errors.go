package cache

import "errors"

// ErrUnavailable is returned by Incr when no redis client is configured.
var ErrUnavailable = errors.New("cache unavailable")

package service

import "errors"

// ErrCacheDisabled is returned by snapshot operations when no cache is wired.
var ErrCacheDisabled = errors.New("snapshot cache is disabled")

package guest

import "errors"

var ErrNotFound = errors.New("guest not found")

package csrf

import "errors"

var ErrEmptySecret = errors.New("csrf secret is empty")

package builder

import "errors"

// ErrUnknownListMode is returned by WithListMode for values outside the ListMode constants.
var ErrUnknownListMode = errors.New("unknown list mode")

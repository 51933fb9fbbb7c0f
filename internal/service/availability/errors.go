package availability

import "errors"

// ErrInternal возвращается при ошибке чтения бронирований
var ErrInternal = errors.New("availability: internal error")

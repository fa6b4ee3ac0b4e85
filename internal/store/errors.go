package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
)

// IsTransient reports errors caused by an unreachable or timed out database.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers for constraint violations.
const (
	dupEntryErr   = 1062
	fkViolatedErr = 1452
)

// translateErr maps driver-level constraint errors onto the repository's
// sentinel errors so callers can distinguish bad input from server faults.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case dupEntryErr:
			return ErrDuplicateCode
		case fkViolatedErr:
			return ErrBadReference
		}
	}
	return err
}

package repository

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/cppla/mforum/utils"
)

var (
	ErrDuplicateUsername = fmt.Errorf("%w: Username already exists", utils.ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("%w: Email already exists", utils.ErrDuplicate)
	ErrUserNotFound      = fmt.Errorf("%w: User not found", utils.ErrNotFound)
	ErrPostNotFound      = fmt.Errorf("%w: Post not found", utils.ErrNotFound)
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// persistenceError wraps a storage failure so it maps to a 500.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", utils.ErrPersistence, op, err)
}

func isUniqueViolation(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

func isForeignKeyViolation(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlNoReferencedRow || me.Number == mysqlRowIsReferenced
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// duplicateField names the unique column a violation refers to. mysql names the index
// ("for key 'users.idx_users_email'"), sqlite the column ("users.email"); the duplicated
// value also appears in the mysql message, so only those names are matched.
func duplicateField(err error) error {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		key := me.Message
		if i := strings.LastIndex(key, "for key "); i >= 0 {
			key = key[i:]
		}
		if strings.Contains(key, "idx_users_email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateUsername
	}
	msg := err.Error()
	if strings.Contains(msg, "users.email") || strings.Contains(msg, "idx_users_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

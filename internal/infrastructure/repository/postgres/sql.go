package postgres

import (
	"database/sql"
	"errors"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}

// rowsApplied reports whether a conditional statement matched a row.
func rowsApplied(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "read rows affected")
	}
	return n > 0, nil
}

func encodeTimes(times map[string]int64) ([]byte, error) {
	if len(times) == 0 {
		return []byte("{}"), nil
	}
	out, err := sonic.Marshal(times)
	if err != nil {
		return nil, crerr.Wrap(err, "encode challenge times")
	}
	return out, nil
}

func decodeTimes(raw []byte) (map[string]int64, error) {
	out := make(map[string]int64)
	if len(raw) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, crerr.Wrap(err, "decode challenge times")
	}
	return out, nil
}

func nonNil(items []string) pq.StringArray {
	if items == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(items)
}

package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
)

// CountRows - число строк таблицы по условию train_no
func CountRows(db *sql.DB, table, trainNo string) (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE train_no = $1", table), trainNo).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s rows for %s: %w", table, trainNo, err)
	}
	return n, nil
}

package driver

import (
	"database/sql"
	"fmt"

	// 純 Go 的 SQLite 驅動，不需要 CGO
	_ "modernc.org/sqlite"
)

// OpenSQLite 開啟（或建立）SQLite 檔案，啟用 WAL 讓讀取不會擋住寫入
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite 只允許單一寫入者
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", path, err)
	}
	return db, nil
}

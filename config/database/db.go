package database

import (
	"database/sql"
	"fmt"
	"time"

	"contentlib/pkg/logger"

	_ "github.com/lib/pq"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect opens a Postgres pool for dsn and pings it, retrying a few times
// so the service tolerates the database coming up after it.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for i := 0; i < connectAttempts; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", connectBackoff, err)
		time.Sleep(connectBackoff)
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", connectAttempts, err)
}

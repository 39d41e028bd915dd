package Controllers_test

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

// openTestDB opens a fresh in-memory database. The shared-cache name is made
// unique per call so tests never see each other's rows.
func openTestDB(name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	return db
}

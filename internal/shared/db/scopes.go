package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Locked is the single locking scope used for every read-then-write sequence
// on payments and settlements. SQLite has no FOR UPDATE syntax and serializes
// writers on its own, so the clause is skipped there (in-memory test databases).
//
// Example usage:
//
//	db.Scopes(db.Locked()).Where("id = ?", id).First(&model)
func Locked() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "sqlite" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// Package gormscope applies searchscope conditions to gorm queries.
package gormscope

import (
	"gorm.io/gorm"

	"github.com/theplant/searchscope"
)

// Scope returns a gorm scope applying the condition composed from params in
// the given mode. When no filter applies the db is returned untouched, so
// the query matches everything rather than nothing. Composition errors are
// attached to the db.
func Scope(search *searchscope.Search, params any, mode searchscope.Mode) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		cond, err := search.ToSQL(params, mode)
		if err != nil {
			db.AddError(err)
			return db
		}
		if cond == nil {
			return db
		}
		return db.Where(cond.SQL, cond.Vars...)
	}
}

// Simple is shorthand for Scope in simple mode.
func Simple(search *searchscope.Search, term string) func(db *gorm.DB) *gorm.DB {
	return Scope(search, term, searchscope.ModeSimple)
}

// Fields is shorthand for Scope in field mode.
func Fields(search *searchscope.Search, terms map[string]searchscope.Term) func(db *gorm.DB) *gorm.DB {
	return Scope(search, terms, searchscope.ModeField)
}

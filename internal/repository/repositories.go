// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch and persist
// data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/mealshare/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Meals *MealRepository
}

// NewRepositories constructs the repository container on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Meals: NewMealRepository(s.DB.Pool),
	}
}

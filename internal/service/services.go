// Package service contains the business logic.
//
// It sits between the callers (the CLI, a web layer) and the repository
// layer. It validates input, performs business operations, and calls
// repository methods to interact with the data.
package service

import (
	"github.com/deppfellow/mealshare/internal/lib/imagestore"
	"github.com/deppfellow/mealshare/internal/repository"
	"github.com/deppfellow/mealshare/internal/server"
)

type Services struct {
	Meals *MealService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	images := imagestore.NewOS(s.Config.Storage.ImageDir, s.Config.Storage.PublicPrefix)
	if err := images.EnsureDir(); err != nil {
		return nil, err
	}

	return &Services{
		Meals: NewMealService(repos.Meals, images, s.Logger, s.Config.Meals.ListDelay),
	}, nil
}

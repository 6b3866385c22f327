package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/deppfellow/mealshare/internal/errs"
	"github.com/deppfellow/mealshare/internal/lib/imagestore"
	"github.com/deppfellow/mealshare/internal/lib/utils"
	loggerPkg "github.com/deppfellow/mealshare/internal/logger"
	"github.com/deppfellow/mealshare/internal/model"
	"github.com/deppfellow/mealshare/internal/sqlerr"
	"github.com/deppfellow/mealshare/internal/validation"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	msgFetchMeals = "Failed to fetch meals."
	msgFetchMeal  = "Failed to fetch meal."
	msgSaveMeal   = "Failed to save meal."
	msgSlugTaken  = "A meal with this slug already exists"
	codeSlugTaken = "MEAL_ALREADY_EXISTS"

	// orphanAge is how old an image without a stored meal must be before a
	// save may replace it. Younger files may belong to a save still in flight.
	orphanAge = time.Minute
)

// MealStore is the persistence the meal service needs.
// *repository.MealRepository implements it.
type MealStore interface {
	ListMeals(ctx context.Context) ([]model.Meal, error)
	GetMealBySlug(ctx context.Context, slug string) (*model.Meal, error)
	InsertMeal(ctx context.Context, meal *model.Meal) error
}

// MealService lists, looks up and saves meals.
type MealService struct {
	store     MealStore
	images    *imagestore.Store
	logger    *zerolog.Logger
	listDelay time.Duration
}

func NewMealService(store MealStore, images *imagestore.Store, logger *zerolog.Logger, listDelay time.Duration) *MealService {
	return &MealService{
		store:     store,
		images:    images,
		logger:    logger,
		listDelay: listDelay,
	}
}

// ListMeals waits for the configured delay and returns every stored meal.
//
// A cancelled ctx ends the wait early with a FetchError.
func (s *MealService) ListMeals(ctx context.Context) ([]model.Meal, error) {
	if s.listDelay > 0 {
		timer := time.NewTimer(s.listDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.logger.Warn().Err(ctx.Err()).Msg("listing cancelled during delay")
			return nil, errs.NewFetchError(msgFetchMeals)
		case <-timer.C:
		}
	}

	meals, err := s.store.ListMeals(ctx)
	if err != nil {
		s.fail(ctx, err).Msg("failed to list meals")
		return nil, errs.NewFetchError(msgFetchMeals)
	}

	if meals == nil {
		meals = []model.Meal{}
	}
	return meals, nil
}

// GetMealBySlug returns the meal with exactly this slug. A missing meal is
// (nil, nil), never an error.
func (s *MealService) GetMealBySlug(ctx context.Context, slug string) (*model.Meal, error) {
	meal, err := s.store.GetMealBySlug(ctx, slug)
	if err != nil {
		s.fail(ctx, err).Str("slug", slug).Msg("failed to get meal")
		return nil, errs.NewFetchError(msgFetchMeal)
	}

	return meal, nil
}

// SaveMeal validates sub, stores its image under the derived slug and
// inserts the meal.
//
// Validation failures happen before anything is written. When the insert
// fails the stored image is removed again.
func (s *MealService) SaveMeal(ctx context.Context, sub model.MealSubmission) (*model.Meal, error) {
	sub.Title = strings.TrimSpace(sub.Title)
	if err := validation.Validate(&sub); err != nil {
		return nil, err
	}

	slug := utils.Slugify(sub.Title)
	if slug == "" {
		return nil, errs.NewValidationError("title required", errs.FieldError{
			Field: "title",
			Error: "must contain a letter or digit",
		})
	}

	log := s.logger.With().
		Str("operation_id", uuid.NewString()).
		Str("slug", slug).
		Logger()

	existing, err := s.store.GetMealBySlug(ctx, slug)
	if err != nil {
		s.notice(ctx, err)
		log.Error().Err(err).Msg("failed to check slug")
		return nil, errs.NewSaveError(msgSaveMeal)
	}
	if existing != nil {
		return nil, slugTaken()
	}

	filename := slug
	if ext := utils.FileExtension(sub.Image.Filename); ext != "" {
		filename += "." + ext
	}

	stored, err := s.images.Save(filename, sub.Image.Content)
	if errors.Is(err, imagestore.ErrExists) {
		stored, err = s.replaceOrphan(ctx, &log, slug, filename, sub.Image.Content)
	}
	if err != nil {
		if errors.Is(err, imagestore.ErrExists) {
			log.Warn().Str("image", filename).Msg("image already exists")
			return nil, slugTaken()
		}
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.notice(ctx, err)
		log.Error().Stack().Err(err).Str("image", filename).Msg("failed to store image")
		return nil, errs.NewSaveError(msgSaveMeal)
	}

	meal := &model.Meal{
		Title:        sub.Title,
		Summary:      sub.Summary,
		Instructions: utils.SanitizeHTML(sub.Instructions),
		Creator:      sub.Creator,
		CreatorEmail: sub.CreatorEmail,
		Image:        stored.PublicPath,
		Slug:         slug,
	}

	if err := s.store.InsertMeal(ctx, meal); err != nil {
		s.notice(ctx, err)
		log.Error().Err(err).Msg("failed to insert meal")

		if rmErr := s.images.Remove(filename); rmErr != nil {
			log.Error().Err(rmErr).Str("image", filename).Msg("failed to remove orphaned image")
		}
		return nil, sqlerr.HandleError(err, msgSaveMeal)
	}

	log.Info().
		Int64("meal_id", meal.ID).
		Str("image", meal.Image).
		Int64("image_size", stored.Size).
		Str("content_type", stored.ContentType).
		Msg("meal saved")

	return meal, nil
}

// replaceOrphan overwrites an existing image when no stored meal uses the
// slug and the file is older than orphanAge. Such a file was left behind by a
// save that failed before cleaning up. Otherwise ErrExists is returned.
func (s *MealService) replaceOrphan(ctx context.Context, log *zerolog.Logger, slug, filename string, content io.Reader) (*imagestore.Result, error) {
	existing, err := s.store.GetMealBySlug(ctx, slug)
	if err != nil {
		s.notice(ctx, err)
		log.Error().Err(err).Msg("failed to check slug")
		return nil, errs.NewSaveError(msgSaveMeal)
	}
	if existing != nil {
		return nil, imagestore.ErrExists
	}

	modTime, err := s.images.ModTime(filename)
	if err != nil {
		return nil, err
	}
	if time.Since(modTime) < orphanAge {
		return nil, imagestore.ErrExists
	}

	log.Warn().Str("image", filename).Time("written_at", modTime).Msg("replacing orphaned image")
	if err := s.images.Remove(filename); err != nil {
		return nil, err
	}
	return s.images.Save(filename, content)
}

func slugTaken() error {
	code := codeSlugTaken
	return errs.NewConflictError(msgSlugTaken, &code)
}

// fail notices err on the transaction in ctx and starts an error log event
// carrying the trace ids.
func (s *MealService) fail(ctx context.Context, err error) *zerolog.Event {
	s.notice(ctx, err)

	log := loggerPkg.WithTraceContext(*s.logger, newrelic.FromContext(ctx))
	return log.Error().Err(err)
}

func (s *MealService) notice(ctx context.Context, err error) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
}

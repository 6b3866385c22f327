package service

import (
	"context"
	"strings"
	"testing"

	"github.com/deppfellow/mealshare/internal/config"
	"github.com/deppfellow/mealshare/internal/database"
	"github.com/deppfellow/mealshare/internal/errs"
	"github.com/deppfellow/mealshare/internal/lib/imagestore"
	"github.com/deppfellow/mealshare/internal/model"
	"github.com/deppfellow/mealshare/internal/repository"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(t *testing.T) *config.Config {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	postgresC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("mealshare"),
		postgres.WithUsername("meals"),
		postgres.WithPassword("meals"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, postgresC)
	require.NoError(t, err)

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)
	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            "meals",
			Password:        "meals",
			Name:            "mealshare",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func TestMealService_Postgres(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	require.NoError(t, database.Migrate(ctx, &logger, cfg))
	// A second run finds nothing to do.
	require.NoError(t, database.Migrate(ctx, &logger, cfg))

	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fsys := afero.NewMemMapFs()
	svc := NewMealService(
		repository.NewMealRepository(db.Pool),
		imagestore.New(fsys, "public/images", "/images"),
		&logger,
		0,
	)

	submit := func(title, filename string) model.MealSubmission {
		return model.MealSubmission{
			Title:        title,
			Summary:      "summary",
			Instructions: "<script>alert(1)</script>Mix well",
			Creator:      "Ana",
			CreatorEmail: "ana@example.com",
			Image:        &model.ImageUpload{Filename: filename, Content: strings.NewReader("bytes")},
		}
	}

	meals, err := svc.ListMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)

	saved, err := svc.SaveMeal(ctx, submit("Spicy Bean Tacos!", "photo.jpg"))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "/images/spicy-bean-tacos.jpg", saved.Image)

	_, err = svc.SaveMeal(ctx, submit("Juicy Cheese Burger", "burger.png"))
	require.NoError(t, err)

	_, err = svc.SaveMeal(ctx, submit("spicy bean tacos", "other.jpg"))
	require.ErrorIs(t, err, errs.ErrConflict)

	meals, err = svc.ListMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "spicy-bean-tacos", meals[0].Slug)
	assert.Equal(t, "juicy-cheese-burger", meals[1].Slug)

	got, err := svc.GetMealBySlug(ctx, "spicy-bean-tacos")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Mix well", got.Instructions)

	missing, err := svc.GetMealBySlug(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

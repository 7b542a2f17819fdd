package repositories_test

import (
	"context"
	"testing"

	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productRepositories returns a fresh instance of every ProductRepository implementation.
func productRepositories(t *testing.T) map[string]repositories.ProductRepository {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return map[string]repositories.ProductRepository{
		"gorm":   repositories.NewGORMProductRepository(db),
		"memory": repositories.NewMockProductRepository(),
	}
}

func seed(t *testing.T, repo repositories.ProductRepository, names ...string) []models.Product {
	t.Helper()
	out := make([]models.Product, 0, len(names))
	for i, name := range names {
		p := models.Product{Name: name, Quantity: i, Price: float64(i) + 0.5}
		require.NoError(t, repo.Create(context.Background(), &p))
		out = append(out, p)
	}
	return out
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seeded := seed(t, repo, "Laptop", "Keyboard")

			assert.Equal(t, uint(1), seeded[0].ID)
			assert.Equal(t, uint(2), seeded[1].ID)

			got, err := repo.GetByID(ctx, seeded[1].ID)
			require.NoError(t, err)
			assert.Equal(t, seeded[1], *got)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, seeded, all)
		})
	}
}

func TestProductRepository_IDsAreNotReused(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seeded := seed(t, repo, "Laptop", "Keyboard")
			require.NoError(t, repo.Delete(ctx, seeded[1].ID))

			next := seed(t, repo, "Mouse")
			assert.Greater(t, next[0].ID, seeded[1].ID)
		})
	}
}

func TestProductRepository_NotFound(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.GetByID(ctx, 42)
			assert.ErrorIs(t, err, repositories.ErrProductNotFound)

			err = repo.Update(ctx, &models.Product{ID: 42, Name: "Ghost"})
			assert.ErrorIs(t, err, repositories.ErrProductNotFound)

			err = repo.Delete(ctx, 42)
			assert.ErrorIs(t, err, repositories.ErrProductNotFound)

			_, err = repo.FindByName(ctx, "Ghost")
			assert.ErrorIs(t, err, repositories.ErrProductNotFound)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := seed(t, repo, "Mouse")[0]

			p.Quantity = 0
			p.Price = 0
			require.NoError(t, repo.Update(ctx, &p))

			got, err := repo.GetByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, p, *got)
		})
	}
}

func TestProductRepository_SearchByName(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, repo, "Gaming Mouse", "MOUSE pad", "Keyboard", "100% Cotton", "snake_case")

			found, err := repo.SearchByName(ctx, "mouse")
			require.NoError(t, err)
			require.Len(t, found, 2)
			assert.Equal(t, "Gaming Mouse", found[0].Name)
			assert.Equal(t, "MOUSE pad", found[1].Name)

			found, err = repo.SearchByName(ctx, "%")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "100% Cotton", found[0].Name)

			found, err = repo.SearchByName(ctx, "_")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "snake_case", found[0].Name)

			found, err = repo.SearchByName(ctx, "tablet")
			require.NoError(t, err)
			assert.Empty(t, found)
		})
	}
}

func TestProductRepository_SearchByNameFoldsUnicode(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, repo, "Écran 27 pouces", "Clavier", "ÜBERKABEL")

			found, err := repo.SearchByName(ctx, "écran")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "Écran 27 pouces", found[0].Name)

			found, err = repo.SearchByName(ctx, "überkabel")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "ÜBERKABEL", found[0].Name)
		})
	}
}

func TestProductRepository_FindByName(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seeded := seed(t, repo, "Mouse", "mouse", "Mouse")

			got, err := repo.FindByName(ctx, "Mouse")
			require.NoError(t, err)
			assert.Equal(t, seeded[0].ID, got.ID)
		})
	}
}

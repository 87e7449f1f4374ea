package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
	"github.com/longmh299/mcbrother-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntity(kind registry.Kind, token registry.Token) *registry.Entity {
	now := time.Now()

	return &registry.Entity{
		ID:          uuid.New(),
		Kind:        kind,
		Token:       token,
		DisplayName: string(token),
		Published:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMemoryRepository_Create(t *testing.T) {
	t.Run("saves entity", func(t *testing.T) {
		repo := store.NewMemoryRepository()

		err := repo.Create(context.Background(), newEntity(registry.KindProduct, "may-in"))

		require.NoError(t, err)
	})

	t.Run("rejects duplicate token within kind", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		require.NoError(t, repo.Create(context.Background(), newEntity(registry.KindProduct, "may-in")))

		err := repo.Create(context.Background(), newEntity(registry.KindProduct, "may-in"))

		assert.ErrorIs(t, err, registry.ErrTokenTaken)
	})

	t.Run("duplicate detection is case-insensitive", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		require.NoError(t, repo.Create(context.Background(), newEntity(registry.KindProduct, "may-in")))

		err := repo.Create(context.Background(), newEntity(registry.KindProduct, "May-In"))

		assert.ErrorIs(t, err, registry.ErrTokenTaken)
	})

	t.Run("same token in another kind does not collide", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		require.NoError(t, repo.Create(context.Background(), newEntity(registry.KindProduct, "khuyen-mai")))

		err := repo.Create(context.Background(), newEntity(registry.KindPost, "khuyen-mai"))

		require.NoError(t, err)
	})

	t.Run("exactly one of two concurrent writers wins a token", func(t *testing.T) {
		repo := store.NewMemoryRepository()

		const writers = 16

		var wg sync.WaitGroup

		errs := make([]error, writers)

		for i := range writers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				errs[i] = repo.Create(context.Background(), newEntity(registry.KindProduct, "contested"))
			}()
		}

		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, registry.ErrTokenTaken)
			}
		}

		assert.Equal(t, 1, winners)
	})
}

func TestMemoryRepository_Update(t *testing.T) {
	t.Run("rename records a redirect from the old token", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindProduct, "may-cu")
		require.NoError(t, repo.Create(context.Background(), entity))

		renamed := *entity
		renamed.Token = "may-moi"
		require.NoError(t, repo.Update(context.Background(), &renamed))

		target, err := repo.RedirectTarget(context.Background(), registry.KindProduct, "may-cu")
		require.NoError(t, err)
		assert.Equal(t, registry.Token("may-moi"), target)

		got, err := repo.GetByToken(context.Background(), registry.KindProduct, "may-moi")
		require.NoError(t, err)
		assert.Equal(t, entity.ID, got.ID)

		_, err = repo.GetByToken(context.Background(), registry.KindProduct, "may-cu")
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("second rename overwrites the first redirect instead of chaining", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindProduct, "a")
		require.NoError(t, repo.Create(context.Background(), entity))

		second := *entity
		second.Token = "b"
		require.NoError(t, repo.Update(context.Background(), &second))

		third := second
		third.Token = "c"
		require.NoError(t, repo.Update(context.Background(), &third))

		// a -> c directly; b -> c from the second rename. No a -> b hop
		// survives.
		target, err := repo.RedirectTarget(context.Background(), registry.KindProduct, "b")
		require.NoError(t, err)
		assert.Equal(t, registry.Token("c"), target)

		target, err = repo.RedirectTarget(context.Background(), registry.KindProduct, "a")
		require.NoError(t, err)
		assert.NotEqual(t, registry.Token("b"), target)
	})

	t.Run("rejects rename onto a held token and leaves no redirect", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		require.NoError(t, repo.Create(context.Background(), newEntity(registry.KindProduct, "held")))
		entity := newEntity(registry.KindProduct, "mine")
		require.NoError(t, repo.Create(context.Background(), entity))

		renamed := *entity
		renamed.Token = "held"
		err := repo.Update(context.Background(), &renamed)

		assert.ErrorIs(t, err, registry.ErrTokenTaken)

		// The failed write must not leave a redirect behind.
		_, err = repo.RedirectTarget(context.Background(), registry.KindProduct, "mine")
		assert.ErrorIs(t, err, registry.ErrNotFound)

		got, err := repo.GetByToken(context.Background(), registry.KindProduct, "mine")
		require.NoError(t, err)
		assert.Equal(t, entity.ID, got.ID)
	})

	t.Run("unchanged token writes no redirect", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindPost, "bai-viet")
		require.NoError(t, repo.Create(context.Background(), entity))

		same := *entity
		same.DisplayName = "renamed display only"
		require.NoError(t, repo.Update(context.Background(), &same))

		_, err := repo.RedirectTarget(context.Background(), registry.KindPost, "bai-viet")
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		repo := store.NewMemoryRepository()

		err := repo.Update(context.Background(), newEntity(registry.KindProduct, "ghost"))

		assert.ErrorIs(t, err, registry.ErrNotFound)
	})
}

func TestMemoryRepository_Delete(t *testing.T) {
	t.Run("removes entity but keeps redirects", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindProduct, "cu")
		require.NoError(t, repo.Create(context.Background(), entity))

		renamed := *entity
		renamed.Token = "moi"
		require.NoError(t, repo.Update(context.Background(), &renamed))

		require.NoError(t, repo.Delete(context.Background(), registry.KindProduct, entity.ID))

		_, err := repo.GetByID(context.Background(), registry.KindProduct, entity.ID)
		assert.ErrorIs(t, err, registry.ErrNotFound)

		// Dangling redirect survives the delete.
		target, err := repo.RedirectTarget(context.Background(), registry.KindProduct, "cu")
		require.NoError(t, err)
		assert.Equal(t, registry.Token("moi"), target)
	})

	t.Run("frees the token for reuse", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindProduct, "tai-su-dung")
		require.NoError(t, repo.Create(context.Background(), entity))
		require.NoError(t, repo.Delete(context.Background(), registry.KindProduct, entity.ID))

		err := repo.Create(context.Background(), newEntity(registry.KindProduct, "tai-su-dung"))

		require.NoError(t, err)
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		repo := store.NewMemoryRepository()

		err := repo.Delete(context.Background(), registry.KindProduct, uuid.New())

		assert.ErrorIs(t, err, registry.ErrNotFound)
	})
}

func TestMemoryRepository_TokenInUse(t *testing.T) {
	t.Run("excludes the entity being edited", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		entity := newEntity(registry.KindProduct, "may-in")
		require.NoError(t, repo.Create(context.Background(), entity))

		inUse, err := repo.TokenInUse(context.Background(), registry.KindProduct, "may-in", &entity.ID)

		require.NoError(t, err)
		assert.False(t, inUse)
	})

	t.Run("other entities still count with exclusion", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		require.NoError(t, repo.Create(context.Background(), newEntity(registry.KindProduct, "may-in")))
		other := uuid.New()

		inUse, err := repo.TokenInUse(context.Background(), registry.KindProduct, "may-in", &other)

		require.NoError(t, err)
		assert.True(t, inUse)
	})
}

func TestMemoryRepository_ListByKind(t *testing.T) {
	seed := func(t *testing.T) *store.MemoryRepository {
		t.Helper()

		repo := store.NewMemoryRepository()
		base := time.Now()

		for i, token := range []registry.Token{"one", "two", "three", "four", "five"} {
			entity := newEntity(registry.KindPost, token)
			entity.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, repo.Create(context.Background(), entity))
		}

		return repo
	}

	t.Run("orders newest first with total count", func(t *testing.T) {
		repo := seed(t)

		entities, total, err := repo.ListByKind(context.Background(), registry.KindPost, 2, 0)

		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, entities, 2)
		assert.Equal(t, registry.Token("five"), entities[0].Token)
		assert.Equal(t, registry.Token("four"), entities[1].Token)
	})

	t.Run("offset pagination", func(t *testing.T) {
		repo := seed(t)

		entities, total, err := repo.ListByKind(context.Background(), registry.KindPost, 2, 4)

		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, entities, 1)
		assert.Equal(t, registry.Token("one"), entities[0].Token)
	})

	t.Run("offset past the end returns empty page", func(t *testing.T) {
		repo := seed(t)

		entities, total, err := repo.ListByKind(context.Background(), registry.KindPost, 10, 50)

		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, entities)
	})

	t.Run("empty kind returns empty page", func(t *testing.T) {
		repo := store.NewMemoryRepository()

		entities, total, err := repo.ListByKind(context.Background(), registry.KindCategory, 10, 0)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entities)
	})
}

// Resolver behavior over a real repository: a reused token must hit the new
// live entity even though an old redirect still names it, and a redirect
// target is returned as-is without chasing further hops.
func TestMemoryRepository_ResolverContract(t *testing.T) {
	t.Run("freshness beats history", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		resolver := registry.NewResolver(repo)

		old := newEntity(registry.KindPost, "tin-tuc")
		require.NoError(t, repo.Create(context.Background(), old))

		renamed := *old
		renamed.Token = "tin-tuc-2025"
		require.NoError(t, repo.Update(context.Background(), &renamed))

		// A newer entity takes over the retired token.
		fresh := newEntity(registry.KindPost, "tin-tuc")
		require.NoError(t, repo.Create(context.Background(), fresh))

		res, err := resolver.Resolve(context.Background(), registry.KindPost, "tin-tuc", nil)

		require.NoError(t, err)
		assert.Equal(t, registry.StatusFound, res.Status)
		assert.Equal(t, fresh.ID, res.Entity.ID)
	})

	t.Run("single hop even when the target was renamed by another entity", func(t *testing.T) {
		repo := store.NewMemoryRepository()
		resolver := registry.NewResolver(repo)

		first := newEntity(registry.KindProduct, "a")
		require.NoError(t, repo.Create(context.Background(), first))

		renamed := *first
		renamed.Token = "b"
		require.NoError(t, repo.Update(context.Background(), &renamed))
		require.NoError(t, repo.Delete(context.Background(), registry.KindProduct, first.ID))

		// A different entity claims b, then retires it to c. The records now
		// read a -> b -> c, but resolution reports the first hop only.
		second := newEntity(registry.KindProduct, "b")
		require.NoError(t, repo.Create(context.Background(), second))

		again := *second
		again.Token = "c"
		require.NoError(t, repo.Update(context.Background(), &again))

		res, err := resolver.Resolve(context.Background(), registry.KindProduct, "a", nil)

		require.NoError(t, err)
		assert.Equal(t, registry.StatusRedirected, res.Status)
		assert.Equal(t, registry.Token("b"), res.Target)
	})
}

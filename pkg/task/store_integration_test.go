package task

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Both integration suites run the same contract against a live database and skip
// when the corresponding URI is unset.

func pgTestStore(t *testing.T) Store {
	uri := os.Getenv("TASKBOARD_TEST_PG_URI")
	if uri == "" {
		t.Skip("TASKBOARD_TEST_PG_URI not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, uri)
	require.NoError(t, err)
	s := NewPgStore(pool)
	require.NoError(t, s.EnsureTable(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE tasks`)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func mongoTestStore(t *testing.T) Store {
	uri := os.Getenv("TASKBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKBOARD_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	s := NewMongoStore(client, "taskboard_test")
	require.NoError(t, s.coll.Drop(ctx))
	require.NoError(t, s.EnsureTable(ctx))
	t.Cleanup(s.Close)
	return s
}

func TestPgStoreContract(t *testing.T) {
	runStoreContract(t, pgTestStore(t), "00000000-0000-7000-8000-000000000000")
}

func TestMongoStoreContract(t *testing.T) {
	runStoreContract(t, mongoTestStore(t), "000000000000000000000000")
}

func TestMemStoreContract(t *testing.T) {
	runStoreContract(t, NewMemStore(), "00000000-0000-7000-8000-000000000000")
}

func runStoreContract(t *testing.T, s Store, missingID string) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	a, err := s.Create(ctx, "A", "first")
	require.NoError(t, err)
	b, err := s.Create(ctx, "B", "")
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(list))

	a.Completed = true
	saved, err := s.Save(ctx, a)
	require.NoError(t, err)
	assert.True(t, saved.Completed)
	assert.Equal(t, "A", saved.Title)
	assert.Equal(t, "first", saved.Description)
	assert.True(t, saved.CreatedAt.Equal(a.CreatedAt))

	upper, err := s.Get(ctx, strings.ToUpper(a.ID))
	require.NoError(t, err)
	assert.Equal(t, a.ID, upper.ID)

	_, err = s.Create(ctx, "  ", "")
	assert.True(t, IsValidation(err))

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, missingID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, s.Delete(ctx, missingID), ErrNotFound)
}

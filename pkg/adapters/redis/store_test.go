package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/redis"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.RunResultStore = (*redis.Store)(nil)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunResultStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_FromURL(t *testing.T) {
	mr, _ := setup(t)
	store, err := redis.New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))

	_, err = redis.New("not a url")
	assert.Error(t, err)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))

	require.NoError(t, store.Save(context.Background(), &domain.RunRecord{ID: "r1"}))
	assert.True(t, mr.Exists("test:r1"))
	assert.True(t, mr.Exists("test:index"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.RunRecord{ID: "run-ttl", Program: "p"}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRedisStore_RejectsEmptyID(t *testing.T) {
	_, client := setup(t)
	err := redis.NewFromClient(client).Save(context.Background(), &domain.RunRecord{})
	assert.Error(t, err)
}

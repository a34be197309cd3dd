package intake

import (
	"bytes"
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

func TestDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(NewMemoryStorage(), "", logging.New("error"))
	assert.Equal(t, DefaultDraftKey, store.Key())

	_, ok := store.Load(ctx)
	assert.False(t, ok)

	for _, rec := range []Record{Defaults(), validRecord()} {
		store.Save(ctx, rec)
		got, ok := store.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, rec, got)
	}

	store.Clear(ctx)
	_, ok = store.Load(ctx)
	assert.False(t, ok)
}

func TestDraftCorruptPayloadIsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	var logs bytes.Buffer
	store := NewDraftStore(mem, "draft", logging.NewWithWriter(&logs, "debug"))

	require.NoError(t, mem.Set(ctx, "draft", []byte(`{"fullName":`)))
	_, ok := store.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, mem.Set(ctx, "draft", []byte(`{"fullName":"Ana","age":{"years":28},"email":"ana@example.com"}`)))
	_, ok = store.Load(ctx)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "discarding corrupt draft")
}

func TestDraftMismatchedFieldKeepsDefaultAndMergesRest(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	var logs bytes.Buffer
	store := NewDraftStore(mem, "draft", logging.NewWithWriter(&logs, "debug"))

	require.NoError(t, mem.Set(ctx, "draft", []byte(
		`{"fullName":"Ana","throwsYouOffTrack":"emotional-eating","email":"ana@example.com","commitmentLevel":8}`)))
	got, ok := store.Load(ctx)
	require.True(t, ok)

	want := Defaults()
	want.FullName = "Ana"
	want.Email = "ana@example.com"
	want.CommitmentLevel = Int(8)
	assert.Equal(t, want, got)
	assert.Contains(t, logs.String(), "draft restored with mismatched fields reset")
	assert.NotContains(t, logs.String(), "discarding corrupt draft")
}

func TestDraftSaveAfterNonFiniteNumber(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	var logs bytes.Buffer
	store := NewDraftStore(mem, "draft", logging.NewWithWriter(&logs, "debug"))

	rec := Defaults()
	rec.Age = "NaN"
	rec.Height = "5ft 10"
	store.Save(ctx, rec)

	got, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, Number("NaN"), got.Age)
	assert.Equal(t, "5ft 10", got.Height)
	assert.NotContains(t, logs.String(), "failed to encode draft")
}

func TestDraftOlderShapeMergesWithDefaults(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	store := NewDraftStore(mem, "draft", logging.New("error"))

	require.NoError(t, mem.Set(ctx, "draft", []byte(`{"fullName":"Ana","favoriteColor":"teal"}`)))
	got, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.FullName)
	assert.Equal(t, "not-sure", got.StartTimeline)
	assert.Equal(t, []string{}, got.ThrowsYouOffTrack)
}

func TestDraftWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	mem.FailWrites(true)
	var logs bytes.Buffer
	store := NewDraftStore(mem, "draft", logging.NewWithWriter(&logs, "info"))

	assert.NotPanics(t, func() { store.Save(ctx, validRecord()) })
	assert.Zero(t, mem.Len())
	assert.Contains(t, logs.String(), "failed to save draft")
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	storage := NewRedisStorage(client, time.Hour, nil)

	_, err := storage.Get(ctx, "draft:1")
	assert.ErrorIs(t, err, ErrStorageMiss)

	require.NoError(t, storage.Set(ctx, "draft:1", []byte(`{"fullName":"Ana"}`)))
	assert.Equal(t, time.Hour, mr.TTL("draft:1"))

	data, err := storage.Get(ctx, "draft:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fullName":"Ana"}`, string(data))

	require.NoError(t, storage.Delete(ctx, "draft:1"))
	assert.False(t, mr.Exists("draft:1"))
}

func TestRedisStorageDraftExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewDraftStore(NewRedisStorage(client, 0, nil), "draft:2", logging.New("error"))

	store.Save(ctx, validRecord())
	assert.Equal(t, DefaultDraftTTL, mr.TTL("draft:2"))

	mr.FastForward(DefaultDraftTTL + time.Second)
	_, ok := store.Load(ctx)
	assert.False(t, ok)
}

func TestRedisStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	storage := NewRedisStorage(client, time.Hour, nil)

	err := storage.Set(ctx, "draft:3", []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageMiss)

	_, err = storage.Get(ctx, "draft:3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageMiss)
}

package relay

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojatech/precifica/internal/config"
	"github.com/lojatech/precifica/internal/repository"
	"github.com/lojatech/precifica/internal/storage/db"
	"github.com/lojatech/precifica/internal/storage/mq"
)

type fakeDB struct {
	db.DB
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type fakeOutboxRepo struct {
	unprocessed []repository.ListUnprocessedOutboxMsgsResult

	updated []repository.BulkUpdateOutboxMsgsItem
}

func (f *fakeOutboxRepo) WithDB(_ db.DB) repository.OutboxMsgRepository { return f }

func (f *fakeOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	return nil
}

func (f *fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return f.unprocessed, nil
}

func (f *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	f.updated = append(f.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	produced []mq.ProduceMsg
	failFor  map[string]error
}

func (f *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if err, ok := f.failFor[msg.Topic]; ok {
		return err
	}
	f.produced = append(f.produced, msg)
	return nil
}

func outboxMsg(t *testing.T, topic string) repository.ListUnprocessedOutboxMsgsResult {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return repository.ListUnprocessedOutboxMsgsResult{
		ID:      id,
		Topic:   topic,
		Payload: []byte(`{}`),
	}
}

func newServiceFixture(repo *fakeOutboxRepo, producer *fakeProducer) *Service {
	cfg := config.Relay{BatchSize: 100, Interval: time.Second}
	return NewService(cfg, slog.New(slog.DiscardHandler), &fakeDB{}, repo, producer)
}

func TestRelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should produce every claimed message and mark them processed", func(t *testing.T) {
		repo := &fakeOutboxRepo{
			unprocessed: []repository.ListUnprocessedOutboxMsgsResult{
				outboxMsg(t, "price.dropped"),
				outboxMsg(t, "price.dropped"),
			},
		}
		producer := &fakeProducer{}
		svc := newServiceFixture(repo, producer)

		require.NoError(t, svc.relayBatch(ctx))

		assert.Len(t, producer.produced, 2)
		require.Len(t, repo.updated, 2)
		assert.Nil(t, repo.updated[0].Error)
		assert.Nil(t, repo.updated[1].Error)
	})

	t.Run("Should record the produce error and keep going", func(t *testing.T) {
		repo := &fakeOutboxRepo{
			unprocessed: []repository.ListUnprocessedOutboxMsgsResult{
				outboxMsg(t, "broken.topic"),
				outboxMsg(t, "price.dropped"),
			},
		}
		producer := &fakeProducer{failFor: map[string]error{"broken.topic": assert.AnError}}
		svc := newServiceFixture(repo, producer)

		require.NoError(t, svc.relayBatch(ctx))

		assert.Len(t, producer.produced, 1)
		require.Len(t, repo.updated, 2)
		require.NotNil(t, repo.updated[0].Error)
		assert.Equal(t, assert.AnError.Error(), *repo.updated[0].Error)
		assert.Nil(t, repo.updated[1].Error)
	})

	t.Run("Should skip the update when the batch is empty", func(t *testing.T) {
		repo := &fakeOutboxRepo{}
		svc := newServiceFixture(repo, &fakeProducer{})

		require.NoError(t, svc.relayBatch(ctx))

		assert.Empty(t, repo.updated)
	})
}

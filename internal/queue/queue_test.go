package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_PublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "activity", Body: json.RawMessage(`{"kind":"login"}`)}))

	ch, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-ch:
		assert.Equal(t, "activity", msg.Type)
		assert.JSONEq(t, `{"kind":"login"}`, string(msg.Body))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestInMemory_PublishRespectsContext(t *testing.T) {
	q := NewInMemory(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := q.Publish(ctx, Message{Type: "activity"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecode(t *testing.T) {
	msg, err := decode(`{"type":"activity","body":{"name":"Asha"}}`)
	require.NoError(t, err)
	assert.Equal(t, "activity", msg.Type)
	assert.JSONEq(t, `{"name":"Asha"}`, string(msg.Body))

	_, err = decode("activity|legacy")
	assert.Error(t, err)
}

func newRedisQueue(t *testing.T) (*miniredis.Miniredis, *RedisQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisQueue(client, "")
}

func TestRedisQueue_PublishConsume(t *testing.T) {
	mr, q := newRedisQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Equal(t, "interntrack:activity", q.key)

	// undecodable entries are skipped
	_, err := mr.Lpush(q.key, "activity|legacy")
	require.NoError(t, err)
	for _, kind := range []string{"login", "logout"} {
		require.NoError(t, q.Publish(ctx, Message{Type: "activity", Body: json.RawMessage(`{"kind":"` + kind + `"}`)}))
	}

	stored, err := mr.List(q.key)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	ch, err := q.Consume(ctx)
	require.NoError(t, err)

	for _, kind := range []string{"login", "logout"} {
		select {
		case msg := <-ch:
			assert.Equal(t, "activity", msg.Type)
			assert.JSONEq(t, `{"kind":"`+kind+`"}`, string(msg.Body))
		case <-time.After(3 * time.Second):
			t.Fatalf("%s message not delivered", kind)
		}
	}
	assert.False(t, mr.Exists(q.key), "list should be drained")
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilClientsAreSafe(t *testing.T) {
	var r *Redis
	assert.False(t, r.Healthy(context.Background()))
	assert.NoError(t, r.Close())

	var d *DB
	assert.NoError(t, d.Close())

	var m *Mongo
	assert.NoError(t, m.Close(context.Background()))
}

func TestNewRedis_DoesNotDial(t *testing.T) {
	r := NewRedis("127.0.0.1:1")
	defer r.Close()
	assert.NotNil(t, r.Client)
	assert.Equal(t, "127.0.0.1:1", r.Client.Options().Addr)
}

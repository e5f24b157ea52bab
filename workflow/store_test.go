package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	session := store.Create()
	assert.NotNil(t, session)
	assert.Equal(t, session, store.Get(session.ID))
	assert.Equal(t, 1, store.Len())
}

func TestStoreGetUnknownID(t *testing.T) {
	store := NewStore(time.Hour)
	assert.Nil(t, store.Get("no-such-session"))
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Hour)
	session := store.Create()

	store.Delete(session.ID)
	assert.Nil(t, store.Get(session.ID))
	assert.Equal(t, 0, store.Len())
}

func TestStoreSweepsStaleSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	stale := store.Create()
	time.Sleep(20 * time.Millisecond)

	// Creating a new session sweeps the expired one
	fresh := store.Create()

	assert.Nil(t, store.Get(stale.ID))
	assert.NotNil(t, store.Get(fresh.ID))
	assert.Equal(t, 1, store.Len())
}

func TestStoreZeroTTLNeverSweeps(t *testing.T) {
	store := NewStore(0)

	first := store.Create()
	time.Sleep(5 * time.Millisecond)
	store.Create()

	assert.NotNil(t, store.Get(first.ID))
	assert.Equal(t, 2, store.Len())
}

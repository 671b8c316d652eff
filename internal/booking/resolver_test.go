package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLastNext(t *testing.T) {
	now := at(48)

	t.Run("yesterday and tomorrow", func(t *testing.T) {
		yesterday := booked("y", StatusApproved, 20, 26)
		tomorrow := booked("t", StatusApproved, 70, 74)

		got := ResolveLastNext([]*Booking{tomorrow, yesterday}, now)
		require.NotNil(t, got.Last)
		require.NotNil(t, got.Next)
		assert.Equal(t, "y", got.Last.ID)
		assert.Equal(t, "t", got.Next.ID)
	})

	t.Run("ongoing booking counts as last", func(t *testing.T) {
		ongoing := booked("o", StatusApproved, 47, 50)
		got := ResolveLastNext([]*Booking{ongoing}, now)
		require.NotNil(t, got.Last)
		assert.Equal(t, "o", got.Last.ID)
		assert.Nil(t, got.Next)
	})

	t.Run("start equal to now is last", func(t *testing.T) {
		got := ResolveLastNext([]*Booking{booked("n", StatusApproved, 48, 50)}, now)
		require.NotNil(t, got.Last)
		assert.Nil(t, got.Next)
	})

	t.Run("latest of several past", func(t *testing.T) {
		got := ResolveLastNext([]*Booking{
			booked("p1", StatusApproved, 1, 2),
			booked("p2", StatusApproved, 5, 6),
			booked("f1", StatusApproved, 60, 61),
			booked("f2", StatusApproved, 50, 51),
		}, now)
		assert.Equal(t, "p2", got.Last.ID)
		assert.Equal(t, "f2", got.Next.ID)
	})

	t.Run("all future", func(t *testing.T) {
		got := ResolveLastNext([]*Booking{booked("f", StatusApproved, 60, 61)}, now)
		assert.Nil(t, got.Last)
		assert.Equal(t, "f", got.Next.ID)
	})

	t.Run("none", func(t *testing.T) {
		got := ResolveLastNext(nil, now)
		assert.Nil(t, got.Last)
		assert.Nil(t, got.Next)
	})

	t.Run("non approved ignored", func(t *testing.T) {
		got := ResolveLastNext([]*Booking{
			booked("w", StatusWaiting, 60, 61),
			booked("r", StatusRejected, 1, 2),
		}, now)
		assert.Nil(t, got.Last)
		assert.Nil(t, got.Next)
	})
}

func TestLastNextTTL(t *testing.T) {
	now := at(48)

	assert.Equal(t, 5*time.Minute, LastNext{}.ttl(now, 5*time.Minute))

	soon := LastNext{Next: &Booking{StartTime: now.Add(time.Minute)}}
	assert.Equal(t, time.Minute, soon.ttl(now, 5*time.Minute))

	later := LastNext{Next: &Booking{StartTime: now.Add(time.Hour)}}
	assert.Equal(t, 5*time.Minute, later.ttl(now, 5*time.Minute))
}

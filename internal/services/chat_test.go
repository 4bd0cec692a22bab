package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

func TestGetOrCreateRoomOncePerJob(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	var wg sync.WaitGroup
	ids := make(chan uint, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := f.chat.GetOrCreateRoom(job.ID)
			if err == nil {
				ids <- room.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var first uint
	var n int
	for id := range ids {
		if first == 0 {
			first = id
		}
		require.Equal(t, first, id)
		n++
	}
	require.Equal(t, 4, n)
	require.EqualValues(t, 1, f.count(t, &models.ChatRoom{}, "job_id = ?", job.ID))
}

func TestChatMessages(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	_, err := f.chat.SendMessage(f.customer, job.ID, "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	first, err := f.chat.SendMessage(f.customer, job.ID, "Hello, when can you come?")
	require.NoError(t, err)
	require.Equal(t, "carol", first.SenderName())
	_, err = f.chat.SendMessage(f.provider, job.ID, "Tomorrow morning")
	require.NoError(t, err)

	messages, err := f.chat.ListMessages(f.provider, job.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "Hello, when can you come?", messages[0].Text)
	require.Equal(t, "paul", messages[1].SenderName())

	rooms, err := f.chat.ListRooms(f.provider)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.EqualValues(t, 1, rooms[0].Unread)

	n, err := f.chat.MarkRead(f.provider, job.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	rooms, err = f.chat.ListRooms(f.provider)
	require.NoError(t, err)
	require.EqualValues(t, 0, rooms[0].Unread)

	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", f.provider.UserID, models.NotificationMessageReceived))
	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", f.customer.UserID, models.NotificationMessageReceived))
}

func TestChatOutsiderForbidden(t *testing.T) {
	f := newFixture(t)
	job := f.newJob(t)

	outsider, err := f.accounts.Register(RegisterInput{
		Username: "eve", Email: "eve@example.com", Password: "secret123", Role: models.RoleCustomer,
	})
	require.NoError(t, err)

	_, err = f.chat.ListMessages(authz.FromUser(outsider), job.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.chat.SendMessage(authz.FromUser(outsider), job.ID, "hi")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.chat.ListMessages(f.customer, 9999)
	require.ErrorIs(t, err, ErrJobNotFound)

	rooms, err := f.chat.ListRooms(authz.FromUser(outsider))
	require.NoError(t, err)
	require.Empty(t, rooms)
}

package task

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	qport "github.com/JEGHTNER/Zooting/internal/infrastructure/queue/port"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/realtime"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/subscriber"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// RoomSweepTaskType is the queue task name for the waiting-room expiry sweep.
const RoomSweepTaskType = "meeting:room_sweep"

// sweepInterval is how often the sweep re-enqueues itself.
const sweepInterval = 5 * time.Second

// RoomReleaser frees a reaped room's topic subscription.
type RoomReleaser interface {
	Unwatch(roomID string) error
}

// RegisterRoomSweepTask binds the expiry sweep to the queue server. The
// sweep deletes rooms whose accept window lapsed without a full round of
// acceptances, tells their members the match fell through, and releases the
// topic subscription. It runs outside the lifecycle reactor so the state
// machine itself stays passive; each run re-enqueues the next one.
func RegisterRoomSweepTask(
	srv qport.Server,
	client qport.Client,
	rooms repository.WaitingRoomRepository,
	notifier subscriber.Notifier,
	releaser RoomReleaser,
) {
	srv.Register(RoomSweepTaskType, func(ctx context.Context, _ qport.Task) error {
		// Always chain the next run, even when this one fails.
		defer func() {
			if _, err := EnqueueRoomSweep(ctx, client, sweepInterval); err != nil {
				log.Error().Err(err).Msg("re-enqueue room sweep failed")
			}
		}()
		return SweepOnce(ctx, rooms, notifier, releaser, time.Now())
	})
}

// EnqueueRoomSweep schedules one sweep run after the given delay. The
// uniqueness window keeps restarts from stacking duplicate sweep chains.
func EnqueueRoomSweep(ctx context.Context, client qport.Client, delay time.Duration) (string, error) {
	return client.Enqueue(ctx, qport.Task{Type: RoomSweepTaskType}, qport.EnqueueOption{
		Queue:     "meeting",
		ProcessIn: delay,
		UniqueTTL: sweepInterval + delay,
	})
}

// SweepOnce reaps every room whose accept handshake deadline has passed.
func SweepOnce(
	ctx context.Context,
	rooms repository.WaitingRoomRepository,
	notifier subscriber.Notifier,
	releaser RoomReleaser,
	now time.Time,
) error {
	all, err := rooms.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, room := range all {
		if !room.AcceptWindowLapsed(now) {
			continue
		}
		log.Info().Str("room", room.ID).Int("accepts", room.AcceptCount).
			Msg("accept window lapsed, reaping waiting room")

		for _, member := range room.Members {
			notifier.Notify(member.Identity, realtime.FrameTypeMatchFailed, room.ID)
		}
		if err := rooms.Delete(ctx, room.ID); err != nil {
			return err
		}
		if err := releaser.Unwatch(room.ID); err != nil {
			return err
		}
	}
	return nil
}

package listener

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"campaign-validator/internal/observability"
	"campaign-validator/internal/storage"
	"campaign-validator/internal/validation"
)

// PolicySource supplies threshold overrides.
type PolicySource interface {
	LoadPolicyOverrides(ctx context.Context) ([]validation.PolicyOverride, error)
}

// Refresh loads overrides from src and swaps them into v. On error the
// current policies stay in place.
func Refresh(ctx context.Context, src PolicySource, v *validation.Validator) error {
	overrides, err := src.LoadPolicyOverrides(ctx)
	if err != nil {
		observability.PolicyReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load policy overrides: %w", err)
	}
	v.ApplyOverrides(overrides)
	observability.PolicyReloads.WithLabelValues("ok").Inc()
	log.Info().Int("overrides", len(overrides)).Msg("policy table refreshed")
	return nil
}

// ListenAndRefresh reloads policies whenever the store's channel is notified.
// It returns when ctx is done.
func ListenAndRefresh(ctx context.Context, st *storage.Store, v *validation.Validator, channel string, baseBackoff time.Duration) {
	if channel == "" {
		channel = st.ListenChannel()
	}
	for ctx.Err() == nil {
		if err := listen(ctx, st, v, channel); err != nil && ctx.Err() == nil {
			backoff := jitter(baseBackoff)
			log.Error().Err(err).Dur("retry_in", backoff).Msg("policy listener")
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
		}
	}
	log.Info().Msg("listener stopped")
}

func listen(ctx context.Context, st *storage.Store, v *validation.Validator, channel string) error {
	conn, err := st.PgxPool().Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn for listen: %w", err)
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "LISTEN "+channel); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	log.Info().Str("channel", channel).Msg("listening for policy changes")

	// changes made while we were disconnected
	if err := Refresh(ctx, st, v); err != nil {
		log.Error().Err(err).Msg("refresh policies")
	}

	events := make(chan string, 16)
	waitErr := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			ntf, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				waitErr <- err
				return
			}
			select {
			case events <- ntf.Payload:
			case <-ctx.Done():
				waitErr <- ctx.Err()
				return
			}
		}
	}()

	coalesce(ctx, events, refreshWindow, func(n int) {
		log.Info().Str("channel", channel).Int("notifications", n).Msg("policy change; refreshing")
		if err := Refresh(ctx, st, v); err != nil {
			log.Error().Err(err).Msg("refresh policies")
		}
	})
	return fmt.Errorf("notify wait: %w", <-waitErr)
}

// refreshWindow groups bursts of notifications into one reload.
const refreshWindow = 200 * time.Millisecond

// coalesce calls refresh once per burst of events. The first event of a burst
// starts a window; refresh runs when it closes, so every event received in the
// window is followed by a refresh. A pending refresh still runs when events is
// closed. coalesce returns when events is closed or ctx is done.
func coalesce(ctx context.Context, events <-chan string, window time.Duration, refresh func(n int)) {
	var (
		fire    <-chan time.Time
		pending int
	)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				if pending > 0 {
					refresh(pending)
				}
				return
			}
			pending++
			if fire == nil {
				fire = time.After(window)
			}
		case <-fire:
			fire = nil
			refresh(pending)
			pending = 0
		}
	}
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	factor := 0.5 + rand.Float64() // 0.5x-1.5x
	return time.Duration(float64(base) * factor)
}

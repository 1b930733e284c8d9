package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncRunner_SurvivesCancellationAndPanics(t *testing.T) {
	runner := services.NewAsyncRunner()
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Int32
	release := make(chan struct{})
	runner.Go(ctx, "slow", func(ctx context.Context) {
		<-release
		if ctx.Err() == nil {
			ran.Add(1)
		}
	})
	runner.Go(ctx, "boom", func(context.Context) { panic("boom") })

	cancel()
	close(release)

	waitCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	require.NoError(t, runner.Wait(waitCtx))
	assert.EqualValues(t, 1, ran.Load(), "tasks do not inherit request cancellation")
}

func TestAsyncRunner_WaitTimesOut(t *testing.T) {
	runner := services.NewAsyncRunner()
	block := make(chan struct{})
	defer close(block)
	runner.Go(context.Background(), "stuck", func(context.Context) { <-block })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, runner.Wait(ctx), context.DeadlineExceeded)
}

func TestInlineRunner_RunsBeforeReturning(t *testing.T) {
	done := false
	services.InlineRunner{}.Go(context.Background(), "inline", func(context.Context) { done = true })
	assert.True(t, done)
}

func TestInlineRunner_RecoversPanics(t *testing.T) {
	var after bool
	assert.NotPanics(t, func() {
		services.InlineRunner{}.Go(context.Background(), "boom", func(context.Context) { panic("notifier exploded") })
		after = true
	})
	assert.True(t, after)
}

func TestClosePeriod_PanickingNotifierDoesNotFailCommittedClose(t *testing.T) {
	f := newLedgerFixture(t, true)
	admin := f.addMember("Aino", true, true, "0")
	debtor := f.addMember("Eero", false, true, "-4")

	f.notifier.panicOn = domain.EventFiscalPeriodClosed
	var result *domain.CloseResult
	require.NotPanics(t, func() {
		var err error
		result, err = f.fiscal.ClosePeriod(f.ctx, admin, "")
		require.NoError(t, err)
	})
	assert.Equal(t, 1, result.DebtsCreated)
	assert.True(t, f.balance(debtor.MemberID).IsZero())

	current, err := f.fiscal.GetCurrentPeriod(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, result.NewPeriodID, current.PeriodID)
}

package actions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/store"
)

// blockingAPI holds ListAccounts until its context ends.
type blockingAPI struct {
	fakeAPI
	started chan struct{}
}

func (b *blockingAPI) ListAccounts(ctx context.Context) ([]bank.Account, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGo_Wait(t *testing.T) {
	api := &fakeAPI{listAccounts: func() ([]bank.Account, error) {
		return []bank.Account{account(1, 10)}, nil
	}}
	h := newHarness(api, store.Snapshot{})

	task := Go(context.Background(), h.bank.FetchAccounts)
	res, err := task.Wait(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, h.store.Snapshot().Accounts, 1)

	select {
	case <-task.Done():
	default:
		t.Fatal("Done not closed after Wait returned")
	}
}

func TestGo_OutlivesCallerContext(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{listAccounts: func() ([]bank.Account, error) {
		<-release
		return []bank.Account{account(1, 10)}, nil
	}}
	h := newHarness(api, store.Snapshot{})

	ctx, cancel := context.WithCancel(context.Background())
	task := Go(ctx, h.bank.FetchAccounts)
	cancel()

	waitCtx, stop := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer stop()
	_, err := task.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, h.store.Snapshot().Accounts, 1, "the transition is applied even though the caller went away")
}

func TestTask_Cancel(t *testing.T) {
	api := &blockingAPI{started: make(chan struct{})}
	h := newHarness(api, store.Snapshot{})

	task := Go(context.Background(), h.bank.FetchAccounts)
	<-api.started
	task.Cancel()

	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)

	snap := h.store.Snapshot()
	assert.Equal(t, "Failed to fetch accounts", snap.Error)
	assert.False(t, snap.Loading)
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUnitOfWork struct {
	beginErr   error
	began      bool
	committed  bool
	rolledBack bool
}

func (u *recordingUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	u.began = true
	return ctx, nil
}

func (u *recordingUnitOfWork) Commit(ctx context.Context) error {
	u.committed = true
	return nil
}

func (u *recordingUnitOfWork) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func TestWithUnitOfWork_CommitsOnSuccess(t *testing.T) {
	uow := &recordingUnitOfWork{}

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.True(t, uow.began)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
}

func TestWithUnitOfWork_RollsBackOnError(t *testing.T) {
	uow := &recordingUnitOfWork{}
	boom := errors.New("boom")

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestWithUnitOfWork_BeginFailure(t *testing.T) {
	boom := errors.New("no connection")
	uow := &recordingUnitOfWork{beginErr: boom}

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		t.Fatal("fn must not run when Begin fails")
		return nil
	})

	assert.ErrorIs(t, err, boom)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spendsight/backend/internal/model"
	"github.com/spendsight/backend/internal/repository"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestUserService_GetByID(t *testing.T) {
	t.Parallel()

	repo := new(MockUserRepo)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Username: "alice"}, nil)

	svc := NewUserService(repo)

	user, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := new(MockUserRepo)
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, repository.ErrUserNotFound)

	svc := NewUserService(repo)

	_, err := svc.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

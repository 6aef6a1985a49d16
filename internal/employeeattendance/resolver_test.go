package employeeattendance_test

import (
	"context"
	"errors"
	"testing"

	"attendly/internal/employee"
	employeeMock "attendly/internal/employee/mock"
	"attendly/internal/employeeattendance"
	"attendly/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestResolver_UserLinkWinsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	resolver := employeeattendance.NewResolver(repo)

	account := &user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	linked := &employee.Employee{ID: uuid.New(), Email: "jane@example.com"}

	// Email and name strategies must never run when the link matches.
	repo.EXPECT().
		FindByUserID(gomock.Any(), account.ID.String()).
		Return(linked, nil)

	got, err := resolver.Resolve(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, linked.ID, got.ID)
}

func TestResolver_FallsBackToEmailThenName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	resolver := employeeattendance.NewResolver(repo)

	account := &user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	byName := &employee.Employee{ID: uuid.New(), Name: "Jane Doe"}

	repo.EXPECT().
		FindByUserID(gomock.Any(), account.ID.String()).
		Return(nil, gorm.ErrRecordNotFound)
	repo.EXPECT().
		FindByEmail(gomock.Any(), "jane@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.EXPECT().
		FindByNameFold(gomock.Any(), "Jane Doe").
		Return(byName, nil)

	got, err := resolver.Resolve(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, byName.ID, got.ID)
}

func TestResolver_NoMatchIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	resolver := employeeattendance.NewResolver(repo)

	account := &user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}

	repo.EXPECT().FindByUserID(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
	repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
	repo.EXPECT().FindByNameFold(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

	got, err := resolver.Resolve(context.Background(), account)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolver_StorageFaultPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	resolver := employeeattendance.NewResolver(repo)

	account := &user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	boom := errors.New("connection reset")

	repo.EXPECT().FindByUserID(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := resolver.Resolve(context.Background(), account)
	assert.ErrorIs(t, err, boom)
}

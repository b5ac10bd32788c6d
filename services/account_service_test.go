package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

func newAccountService(t *testing.T) (*AccountService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewAccountService(newTestDB(t), bcrypt.MinCost, pub), pub
}

func registerAnna(t *testing.T, svc *AccountService) *models.User {
	t.Helper()
	user, err := svc.RegisterUser(context.Background(), RegisterUserInput{
		Name: "anna", LastName: "Schmidt", Email: "Anna@Example.com ", Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLoginUser(t *testing.T) {
	svc, pub := newAccountService(t)
	ctx := context.Background()

	user := registerAnna(t, svc)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.EmailToken)
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventUserRegistered, pub.events[0].queue)

	_, err := svc.RegisterUser(ctx, RegisterUserInput{
		Name: "other", LastName: "x", Email: "anna@example.com", Password: "secret1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Email already in use", err.Error())

	_, err = svc.RegisterUser(ctx, RegisterUserInput{Name: "x", Email: "x@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrMissingParameter))

	_, err = svc.RegisterUser(ctx, RegisterUserInput{Name: "x", LastName: "y", Email: "x@example.com", Password: "123"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	loggedIn, token, err := svc.LoginUser(ctx, "anna@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.AccountID)
	assert.Equal(t, "anna", claims.Name)
	assert.Equal(t, utils.RoleUser, claims.Role)

	_, _, err = svc.LoginUser(ctx, "anna@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	_, _, err = svc.LoginUser(ctx, "nobody@example.com", "secret1")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestVerifyEmail(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	user := registerAnna(t, svc)

	verified, err := svc.VerifyEmail(ctx, *user.EmailToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	_, err = svc.VerifyEmail(ctx, *user.EmailToken)
	assert.True(t, errors.Is(err, ErrNotFound), "tokens are single use")

	_, err = svc.VerifyEmail(ctx, "")
	assert.True(t, errors.Is(err, ErrMissingParameter))
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	user := registerAnna(t, svc)
	self := Identity{AccountID: user.ID, Name: user.Name, Role: utils.RoleUser}

	updated, err := svc.UpdateUser(ctx, self, UpdateUserInput{Email: "anna@example.com", LastName: "Meyer", Password: "newsecret"})
	require.NoError(t, err)
	assert.Equal(t, "Meyer", updated.LastName)
	assert.Equal(t, "anna", updated.Name)

	_, _, err = svc.LoginUser(ctx, "anna@example.com", "newsecret")
	assert.NoError(t, err)

	_, err = svc.UpdateUser(ctx, self, UpdateUserInput{Email: "ghost@example.com", Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "User not found", err.Error())

	stranger := Identity{AccountID: user.ID + 1, Name: "eve", Role: utils.RoleUser}
	_, err = svc.UpdateUser(ctx, stranger, UpdateUserInput{Email: "anna@example.com", Name: "x"})
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestDeleteUserUnblocksTables(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	user := registerAnna(t, svc)

	tables := NewTableService(svc.db)
	reserved := seedTable(t, svc.db, 1, "A",
		models.Reservation{ID: "r1", User: "anna", ReservationDate: "2023-09-08", ReservationTime: "12:00"},
	)
	seedTable(t, svc.db, 2, "A")
	seedTable(t, svc.db, 3, "A")
	_, err := tables.BlockTable(ctx, Identity{}, 1, "A", "anna")
	require.NoError(t, err)
	_, err = tables.BlockTable(ctx, Identity{}, 2, "A", "anna")
	require.NoError(t, err)
	_, err = tables.BlockTable(ctx, Identity{}, 3, "A", "ben")
	require.NoError(t, err)

	self := Identity{AccountID: user.ID, Name: user.Name, Role: utils.RoleUser}
	unblocked, err := svc.DeleteUser(ctx, self, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unblocked)

	all := allTables(t, tables)
	assertBlockedInvariant(t, all...)
	assert.Empty(t, all[0].AssignedUser)
	assert.Empty(t, all[1].AssignedUser)
	assert.Equal(t, "ben", all[2].AssignedUser)

	// reservations made by the user stay on the table
	assert.Len(t, reloadTable(t, svc.db, reserved.ID).Reservations, 1)

	_, err = svc.DeleteUser(ctx, Identity{}, "anna@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "User not found", err.Error())
}

func TestDeleteUserForbiddenForOthers(t *testing.T) {
	svc, _ := newAccountService(t)
	user := registerAnna(t, svc)

	_, err := svc.DeleteUser(context.Background(), ownerAlice, "anna@example.com")
	assert.True(t, errors.Is(err, ErrForbidden))

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterAndLoginOwner(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	in := RegisterOwnerInput{
		RestaurantName: "Alice's",
		Address:        "Main Street 1",
		PostalCode:     "10115",
		City:           "Berlin",
		PhoneNumber:    "0301234",
		Email:          "alice@example.com",
		Password:       "secret1",
	}
	owner, err := svc.RegisterOwner(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, owner.ID)

	_, err = svc.RegisterOwner(ctx, in)
	require.Error(t, err)
	assert.Equal(t, "Email already in use", err.Error())

	in.Email = "other@example.com"
	in.City = ""
	_, err = svc.RegisterOwner(ctx, in)
	assert.True(t, errors.Is(err, ErrMissingParameter))

	_, token, err := svc.LoginOwner(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice's", claims.Name)
	assert.Equal(t, utils.RoleOwner, claims.Role)

	_, _, err = svc.LoginOwner(ctx, "alice@example.com", "nope")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRegisterOwnerRejectsTakenRestaurantName(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	restaurants := NewRestaurantService(svc.db, nil)

	in := RegisterOwnerInput{
		RestaurantName: "Alice",
		Address:        "Main Street 1",
		PostalCode:     "10115",
		City:           "Berlin",
		PhoneNumber:    "0301234",
		Email:          "alice@example.com",
		Password:       "secret1",
	}
	_, err := svc.RegisterOwner(ctx, in)
	require.NoError(t, err)
	_, token, err := svc.LoginOwner(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	alice := Identity{AccountID: claims.AccountID, Name: claims.Name, Role: claims.Role}
	_, err = restaurants.AddRestaurant(ctx, alice, AddRestaurantInput{
		Name: "Alice Bistro", Description: "d", OpeningHours: "11-23", Stars: 3,
		Address: "a", PhoneNumber: "p",
	})
	require.NoError(t, err)

	in.Email = "mallory@example.com"
	_, err = svc.RegisterOwner(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Restaurant name already registered", err.Error())

	_, _, err = svc.LoginOwner(ctx, "mallory@example.com", "secret1")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	// the schema enforces the same rule
	err = svc.db.Create(&models.Owner{
		RestaurantName: "Alice", Address: "x", PostalCode: "1", City: "c",
		PhoneNumber: "1", Email: "direct@example.com", Password: "x",
	}).Error
	assert.Error(t, err)

	_, err = restaurants.GetRestaurant(ctx, "Alice Bistro")
	assert.NoError(t, err)
}

func TestUpdateUserNameLockedWhileHoldingTables(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	user := registerAnna(t, svc)
	self := Identity{AccountID: user.ID, Name: user.Name, Role: utils.RoleUser}
	tables := NewTableService(svc.db)

	seedTable(t, svc.db, 1, "A")
	_, err := tables.BlockTable(ctx, Identity{}, 1, "A", "anna")
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, self, UpdateUserInput{Email: "anna@example.com", Name: "annie"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, MsgNameLocked, err.Error())

	_, err = tables.UnblockTable(ctx, Identity{}, 1, "A")
	require.NoError(t, err)
	seedTable(t, svc.db, 2, "A",
		models.Reservation{ID: "r1", User: "anna", ReservationDate: "2023-09-08", ReservationTime: "12:00"},
	)
	_, err = svc.UpdateUser(ctx, self, UpdateUserInput{Email: "anna@example.com", Name: "annie"})
	assert.True(t, errors.Is(err, ErrConflict))

	// other profile fields stay editable
	updated, err := svc.UpdateUser(ctx, self, UpdateUserInput{Email: "anna@example.com", Name: "anna", LastName: "Meyer"})
	require.NoError(t, err)
	assert.Equal(t, "anna", updated.Name)
	assert.Equal(t, "Meyer", updated.LastName)
}

func TestUpdateUserRenameWithoutHolds(t *testing.T) {
	svc, _ := newAccountService(t)
	user := registerAnna(t, svc)
	self := Identity{AccountID: user.ID, Name: user.Name, Role: utils.RoleUser}
	seedTable(t, svc.db, 1, "A")

	updated, err := svc.UpdateUser(context.Background(), self, UpdateUserInput{Email: "anna@example.com", Name: "annie"})
	require.NoError(t, err)
	assert.Equal(t, "annie", updated.Name)
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

const minPasswordLength = 6

// AccountService registers and authenticates diners and owners. Deleting
// a diner releases every table assigned to their display name.
type AccountService struct {
	db         *gorm.DB
	bcryptCost int
	publisher  EventPublisher
}

func NewAccountService(db *gorm.DB, bcryptCost int, publisher EventPublisher) *AccountService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &AccountService{db: db, bcryptCost: bcryptCost, publisher: publisher}
}

type RegisterUserInput struct {
	Name     string
	LastName string
	Email    string
	Password string
}

func (s *AccountService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, newError(KindMissingParameter, MsgMissingFields)
	}
	if len(in.Password) < minPasswordLength {
		return nil, newError(KindInvalidInput, MsgWeakPassword)
	}
	if err := s.ensureEmailFree(ctx, &models.User{}, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	token := uuid.NewString()
	user := models.User{
		Name:       in.Name,
		LastName:   in.LastName,
		Email:      in.Email,
		Password:   hashed,
		EmailToken: &token,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, internalError(err)
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)
	publish(ctx, s.publisher, EventUserRegistered, UserRegisteredEvent{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		EmailToken: token,
		OccurredAt: nowStamp(),
	})
	return &user, nil
}

// LoginUser checks credentials and returns the user with a signed token.
func (s *AccountService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", newError(KindUnauthorized, MsgInvalidCredentials)
		}
		return nil, "", internalError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", newError(KindUnauthorized, MsgInvalidCredentials)
	}
	token, err := utils.GenerateToken(user.ID, user.Name, utils.RoleUser)
	if err != nil {
		return nil, "", internalError(err)
	}
	return &user, token, nil
}

// VerifyEmail marks the user owning emailToken as verified.
func (s *AccountService) VerifyEmail(ctx context.Context, emailToken string) (*models.User, error) {
	if emailToken == "" {
		return nil, newError(KindMissingParameter, MsgInvalidEmailToken)
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("email_token = ?", emailToken).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, MsgInvalidEmailToken)
		}
		return nil, internalError(err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"is_verified": true,
		"email_token": nil,
	}).Error; err != nil {
		return nil, internalError(err)
	}
	user.IsVerified = true
	user.EmailToken = nil
	return &user, nil
}

type UpdateUserInput struct {
	Email    string
	Name     string
	LastName string
	Password string
}

// UpdateUser changes the profile found by email. An unknown email is an
// invalid request (400) on this endpoint, not NotFound. The display name
// is locked while any table is blocked or reserved under it.
func (s *AccountService) UpdateUser(ctx context.Context, id Identity, in UpdateUserInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindInvalidInput, MsgUserNotFound)
		}
		return nil, internalError(err)
	}
	if id.Role != "" && !(id.IsUser() && id.AccountID == user.ID) {
		return nil, newError(KindForbidden, MsgForbidden)
	}

	if in.Name != "" && in.Name != user.Name {
		held, err := holdsTables(ctx, s.db, user.Name)
		if err != nil {
			return nil, internalError(err)
		}
		if held {
			return nil, newError(KindConflict, MsgNameLocked)
		}
		user.Name = in.Name
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return nil, newError(KindInvalidInput, MsgWeakPassword)
		}
		hashed, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, internalError(err)
	}

	utils.InfoLogger.Printf("User %s updated", user.Email)
	return &user, nil
}

// DeleteUser removes the account and, in the same transaction, unblocks
// every table assigned to the user's display name. Reservations already
// made by the user stay on their tables.
func (s *AccountService) DeleteUser(ctx context.Context, id Identity, email string) (int64, error) {
	var unblocked int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, MsgUserNotFound)
			}
			return internalError(err)
		}
		if id.Role != "" && !(id.IsUser() && id.AccountID == user.ID) {
			return newError(KindForbidden, MsgForbidden)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return internalError(err)
		}
		n, err := UnblockTablesForUser(ctx, tx, user.Name)
		if err != nil {
			return internalError(err)
		}
		unblocked = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	utils.InfoLogger.Printf("User %s deleted, %d tables unblocked", normalizeEmail(email), unblocked)
	return unblocked, nil
}

type RegisterOwnerInput struct {
	RestaurantName string
	Address        string
	PostalCode     string
	City           string
	PhoneNumber    string
	Email          string
	Password       string
}

func (s *AccountService) RegisterOwner(ctx context.Context, in RegisterOwnerInput) (*models.Owner, error) {
	in.Email = normalizeEmail(in.Email)
	if in.RestaurantName == "" || in.Address == "" || in.PostalCode == "" ||
		in.City == "" || in.PhoneNumber == "" || in.Email == "" || in.Password == "" {
		return nil, newError(KindMissingParameter, MsgMissingFields)
	}
	if len(in.Password) < minPasswordLength {
		return nil, newError(KindInvalidInput, MsgWeakPassword)
	}
	if err := s.ensureEmailFree(ctx, &models.Owner{}, in.Email); err != nil {
		return nil, err
	}
	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.Owner{}).
		Where("restaurant_name = ?", in.RestaurantName).Count(&taken).Error; err != nil {
		return nil, internalError(err)
	}
	if taken > 0 {
		return nil, newError(KindConflict, MsgOwnerNameInUse)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	owner := models.Owner{
		RestaurantName: in.RestaurantName,
		Address:        in.Address,
		PostalCode:     in.PostalCode,
		City:           in.City,
		PhoneNumber:    in.PhoneNumber,
		Email:          in.Email,
		Password:       hashed,
	}
	if err := s.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return nil, internalError(err)
	}

	utils.InfoLogger.Printf("New owner registered: %s (%s)", owner.Email, owner.RestaurantName)
	return &owner, nil
}

func (s *AccountService) LoginOwner(ctx context.Context, email, password string) (*models.Owner, string, error) {
	var owner models.Owner
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", newError(KindUnauthorized, MsgInvalidCredentials)
		}
		return nil, "", internalError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(password)); err != nil {
		return nil, "", newError(KindUnauthorized, MsgInvalidCredentials)
	}
	token, err := utils.GenerateToken(owner.ID, owner.RestaurantName, utils.RoleOwner)
	if err != nil {
		return nil, "", internalError(err)
	}
	return &owner, token, nil
}

// holdsTables reports whether userName is assigned to a table or holds a reservation.
func holdsTables(ctx context.Context, db *gorm.DB, userName string) (bool, error) {
	var assigned int64
	if err := db.WithContext(ctx).Model(&models.Table{}).Where("assigned_user = ?", userName).Count(&assigned).Error; err != nil {
		return false, err
	}
	if assigned > 0 {
		return true, nil
	}
	var tables []models.Table
	if err := db.WithContext(ctx).Find(&tables).Error; err != nil {
		return false, err
	}
	for range ReservationsOf(tables, userName) {
		return true, nil
	}
	return false, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, model interface{}, email string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("email = ?", email).Count(&count).Error; err != nil {
		return internalError(err)
	}
	if count > 0 {
		return newError(KindConflict, MsgEmailInUse)
	}
	return nil
}

func (s *AccountService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internalError(err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

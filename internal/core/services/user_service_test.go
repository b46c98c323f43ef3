package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/core/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		PersonalSignupBonus: decimal.NewFromInt(40),
		AgentSignupBonus:    decimal.NewFromInt(100000),
	}
	suite.service = services.NewUserService(cfg, suite.mockUserRepo)
}

// --- RegisterUser ---

func (suite *UserServiceTestSuite) TestRegisterUser_Personal() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:  "Test User",
		Phone: "01700000001",
		Email: "user@example.com",
		Pin:   "12345",
		Role:  "personal",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Phone == req.Phone &&
			u.Role == domain.RolePersonal &&
			u.Balance.IsZero() &&
			!u.Verified &&
			u.PinHash != "" && u.PinHash != req.Pin
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.True(utils.CheckPinHash(req.Pin, user.PinHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_AgentGetsFloat() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:  "Test Agent",
		Phone: "01800000001",
		Email: "agent@example.com",
		Pin:   "12345",
		Role:  "agent",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAgent && u.Balance.Equal(decimal.NewFromInt(100000))
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.True(user.Balance.Equal(decimal.NewFromInt(100000)))
}

func (suite *UserServiceTestSuite) TestRegisterUser_Duplicate() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:  "Test User",
		Phone: "01700000001",
		Email: "user@example.com",
		Pin:   "12345",
		Role:  "personal",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

// --- AuthenticateUser ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	pin := "12345"
	hash, err := utils.HashPin(pin)
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Phone: "01700000001", PinHash: hash}
	suite.mockUserRepo.On("FindUserByPhone", ctx, stored.Phone).Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, stored.Phone, pin)

	suite.Require().NoError(err)
	suite.Equal(stored, user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPin() {
	ctx := context.Background()
	hash, err := utils.HashPin("12345")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Phone: "01700000001", PinHash: hash}
	suite.mockUserRepo.On("FindUserByPhone", ctx, stored.Phone).Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, stored.Phone, "54321")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownPhone() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByPhone", ctx, "01799999999").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "01799999999", "12345")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

// --- GetRoleByEmail ---

func (suite *UserServiceTestSuite) TestGetRoleByEmail_Success() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "agent@example.com", Role: domain.RoleAgent}

	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	role, err := suite.service.GetRoleByEmail(ctx, stored.Email)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAgent, role)
}

func (suite *UserServiceTestSuite) TestGetRoleByEmail_NotFound() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "missing@example.com").Return(nil, apperrors.ErrNotFound).Once()

	role, err := suite.service.GetRoleByEmail(ctx, "missing@example.com")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Empty(role)
}

// --- VerifyUser ---

func (suite *UserServiceTestSuite) TestVerifyUser_FirstVerificationCreditsBonus() {
	ctx := context.Background()
	phone := "01700000001"
	unverified := &domain.User{UserID: uuid.NewString(), Phone: phone, Role: domain.RolePersonal, Verified: false}
	verified := &domain.User{UserID: unverified.UserID, Phone: phone, Role: domain.RolePersonal, Verified: true, Balance: decimal.NewFromInt(40)}

	suite.mockUserRepo.On("FindUserByPhone", ctx, phone).Return(unverified, nil).Once()
	suite.mockUserRepo.On("MarkVerified", ctx, phone, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockUserRepo.On("IncrementBalance", ctx, phone,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(40)) }),
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByPhone", ctx, phone).Return(verified, nil).Once()

	user, err := suite.service.VerifyUser(ctx, phone)

	suite.Require().NoError(err)
	suite.True(user.Verified)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestVerifyUser_SecondVerificationNoBonus() {
	ctx := context.Background()
	phone := "01700000001"
	already := &domain.User{UserID: uuid.NewString(), Phone: phone, Role: domain.RolePersonal, Verified: true, Balance: decimal.NewFromInt(40)}

	suite.mockUserRepo.On("FindUserByPhone", ctx, phone).Return(already, nil).Twice()
	suite.mockUserRepo.On("MarkVerified", ctx, phone, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	user, err := suite.service.VerifyUser(ctx, phone)

	suite.Require().NoError(err)
	suite.True(user.Verified)
	// Re-verifying must never credit the bonus again.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "IncrementBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestVerifyUser_AgentGetsNoBonus() {
	ctx := context.Background()
	phone := "01800000001"
	agent := &domain.User{UserID: uuid.NewString(), Phone: phone, Role: domain.RoleAgent, Verified: false}

	suite.mockUserRepo.On("FindUserByPhone", ctx, phone).Return(agent, nil).Twice()
	suite.mockUserRepo.On("MarkVerified", ctx, phone, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	_, err := suite.service.VerifyUser(ctx, phone)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "IncrementBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateEmail / DeleteUser ---

func (suite *UserServiceTestSuite) TestUpdateEmail_Success() {
	ctx := context.Background()
	suite.mockUserRepo.On("UpdateEmail", ctx, "01700000001", "new@example.com", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.UpdateEmail(ctx, "01700000001", "new@example.com")

	suite.Require().NoError(err)
}

func (suite *UserServiceTestSuite) TestDeleteUser_NotFound() {
	ctx := context.Background()
	suite.mockUserRepo.On("DeleteUser", ctx, "01799999999").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteUser(ctx, "01799999999")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError
	suite.mockUserRepo.On("FindUsers", ctx, 20, 0).Return(nil, expectedErr).Once()

	users, err := suite.service.ListUsers(ctx, 20, 0)

	suite.Require().Error(err)
	suite.Nil(users)
	suite.ErrorIs(err, expectedErr)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

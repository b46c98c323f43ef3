package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/handlers"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) SendMoney(ctx context.Context, req dto.SendMoneyRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockLedgerService) CashOut(ctx context.Context, req dto.CashOutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockLedgerService) RequestCashIn(ctx context.Context, req dto.CreateCashInRequest) (*domain.CashInRequest, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.CashInRequest), args.String(1), args.Error(2)
}

func (m *MockLedgerService) AcceptCashIn(ctx context.Context, req dto.AcceptCashInRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockLedgerService) RejectCashIn(ctx context.Context, requestID string, agentPhone string) error {
	args := m.Called(ctx, requestID, agentPhone)
	return args.Error(0)
}

func (m *MockLedgerService) ListPendingCashIn(ctx context.Context, agentPhone string) ([]domain.CashInRequest, error) {
	args := m.Called(ctx, agentPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashInRequest), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, phone string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetRoleByEmail(ctx context.Context, email string) (domain.UserRole, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.UserRole), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) VerifyUser(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateEmail(ctx context.Context, phone string, email string) error {
	args := m.Called(ctx, phone, email)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, phone, pin string) (*domain.User, error) {
	args := m.Called(ctx, phone, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock NotifierService ---
type MockNotifierService struct {
	mock.Mock
}

func (m *MockNotifierService) Notify(phone string, message string) {
	m.Called(phone, message)
}

func (m *MockNotifierService) ListNotifications(ctx context.Context, phone string) ([]domain.Notification, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotifierService) MarkRead(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *MockNotifierService) Close() {
	m.Called()
}

var _ portssvc.NotifierSvcFacade = (*MockNotifierService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateSessionToken(ctx context.Context, phone string) (string, time.Time, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	cfg               *config.Config
	mockLedgerService *MockLedgerService
	mockUserService   *MockUserService
	mockNotifier      *MockNotifierService
	mockTokenService  *MockTokenService
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "pocketpay-test",
		TokenCookieName:   "token",
	}

	suite.mockLedgerService = new(MockLedgerService)
	suite.mockUserService = new(MockUserService)
	suite.mockNotifier = new(MockNotifierService)
	suite.mockTokenService = new(MockTokenService)

	services := &portssvc.ServiceContainer{
		User:     suite.mockUserService,
		Ledger:   suite.mockLedgerService,
		Notifier: suite.mockNotifier,
		Token:    suite.mockTokenService,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, services)
}

// sessionCookie signs a JWT for the phone and wraps it in the cookie the
// auth middleware reads.
func (suite *LedgerHandlerTestSuite) sessionCookie(phone string) *http.Cookie {
	token, err := utils.GenerateJWT(phone, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return &http.Cookie{Name: suite.cfg.TokenCookieName, Value: token}
}

func (suite *LedgerHandlerTestSuite) doJSON(method, url, phone string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if phone != "" {
		req.AddCookie(suite.sessionCookie(phone))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestHome() {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Hello from PocketPay Server..", w.Body.String())
}

func (suite *LedgerHandlerTestSuite) TestSendMoney_Success() {
	body := dto.SendMoneyRequest{
		Sender:         "01700000001",
		AccountNumber:  "01700000002",
		Amount:         decimal.NewFromInt(20),
		TotalPayAmount: decimal.NewFromInt(21),
		Pin:            "12345",
	}

	suite.mockLedgerService.On("SendMoney", mock.Anything, mock.MatchedBy(func(r dto.SendMoneyRequest) bool {
		return r.Sender == body.Sender && r.Amount.Equal(body.Amount)
	})).Return(nil).Once()

	w := suite.doJSON(http.MethodPut, "/sendMoney", body.Sender, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Send Money Successful", resp.Message)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestSendMoney_WrongPinIsSoftError() {
	body := dto.SendMoneyRequest{
		Sender:         "01700000001",
		AccountNumber:  "01700000002",
		Amount:         decimal.NewFromInt(20),
		TotalPayAmount: decimal.NewFromInt(21),
		Pin:            "99999",
	}

	suite.mockLedgerService.On("SendMoney", mock.Anything, mock.AnythingOfType("dto.SendMoneyRequest")).Return(apperrors.ErrWrongPin).Once()

	w := suite.doJSON(http.MethodPut, "/sendMoney", body.Sender, body)

	// Business rejections answer 200; the frontend branches on errorMessage.
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Wrong Pin", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestSendMoney_UnknownReceiverIsSoftError() {
	body := dto.SendMoneyRequest{
		Sender:         "01700000001",
		AccountNumber:  "01799999999",
		Amount:         decimal.NewFromInt(20),
		TotalPayAmount: decimal.NewFromInt(21),
		Pin:            "12345",
	}

	suite.mockLedgerService.On("SendMoney", mock.Anything, mock.AnythingOfType("dto.SendMoneyRequest")).Return(apperrors.ErrInvalidUser).Once()

	w := suite.doJSON(http.MethodPut, "/sendMoney", body.Sender, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid User", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestSendMoney_NoSession() {
	body := dto.SendMoneyRequest{
		Sender:         "01700000001",
		AccountNumber:  "01700000002",
		Amount:         decimal.NewFromInt(20),
		TotalPayAmount: decimal.NewFromInt(21),
		Pin:            "12345",
	}

	w := suite.doJSON(http.MethodPut, "/sendMoney", "", body)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.JSONEq(`{"message":"unauthorized access"}`, w.Body.String())
	suite.mockLedgerService.AssertNotCalled(suite.T(), "SendMoney", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestSendMoney_SenderMismatch() {
	body := dto.SendMoneyRequest{
		Sender:         "01700000001",
		AccountNumber:  "01700000002",
		Amount:         decimal.NewFromInt(20),
		TotalPayAmount: decimal.NewFromInt(21),
		Pin:            "12345",
	}

	// Session belongs to a different phone than the declared sender.
	w := suite.doJSON(http.MethodPut, "/sendMoney", "01700000009", body)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "SendMoney", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestCashOut_InvalidAgentIsSoftError() {
	body := dto.CashOutRequest{
		Sender:         "01700000001",
		AccountNumber:  "01700000002",
		Amount:         decimal.NewFromInt(200),
		TotalPayAmount: decimal.NewFromInt(203),
		Pin:            "12345",
	}

	suite.mockLedgerService.On("CashOut", mock.Anything, mock.AnythingOfType("dto.CashOutRequest")).Return(apperrors.ErrInvalidAgent).Once()

	w := suite.doJSON(http.MethodPut, "/cashOut", body.Sender, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid Agent", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestRequestCashIn_WrongPinIsSoftError() {
	body := dto.CreateCashInRequest{
		Sender:        "01700000001",
		AccountNumber: "01800000001",
		Amount:        decimal.NewFromInt(500),
		Pin:           "99999",
	}

	suite.mockLedgerService.On("RequestCashIn", mock.Anything, mock.AnythingOfType("dto.CreateCashInRequest")).Return(nil, "", apperrors.ErrWrongPin).Once()

	w := suite.doJSON(http.MethodPost, "/cashInReq", body.Sender, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Wrong Pin", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestAcceptCashIn_Success() {
	agentPhone := "01800000001"
	body := dto.AcceptCashInRequest{
		RequestID:     uuid.NewString(),
		Sender:        "01700000001",
		AccountNumber: agentPhone,
		Amount:        decimal.NewFromInt(500),
	}

	suite.mockLedgerService.On("AcceptCashIn", mock.Anything, mock.MatchedBy(func(r dto.AcceptCashInRequest) bool {
		return r.RequestID == body.RequestID
	})).Return(nil).Once()

	w := suite.doJSON(http.MethodPut, "/acceptCashIn", agentPhone, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Approved", resp.Message)
}

func (suite *LedgerHandlerTestSuite) TestAcceptCashIn_RequesterCannotSelfApprove() {
	requesterPhone := "01700000001"
	body := dto.AcceptCashInRequest{
		RequestID:     uuid.NewString(),
		Sender:        requesterPhone,
		AccountNumber: requesterPhone,
		Amount:        decimal.NewFromInt(500),
	}

	// The requester holds a valid session and names themselves as the
	// settling account; the service refuses because the stored request is
	// addressed to a different agent.
	suite.mockLedgerService.On("AcceptCashIn", mock.Anything, mock.MatchedBy(func(r dto.AcceptCashInRequest) bool {
		return r.AccountNumber == requesterPhone
	})).Return(apperrors.ErrInvalidAgent).Once()

	w := suite.doJSON(http.MethodPut, "/acceptCashIn", requesterPhone, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid Agent", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestAcceptCashIn_AlreadySettledIsSoftError() {
	agentPhone := "01800000001"
	body := dto.AcceptCashInRequest{
		RequestID:     uuid.NewString(),
		Sender:        "01700000001",
		AccountNumber: agentPhone,
		Amount:        decimal.NewFromInt(500),
	}

	suite.mockLedgerService.On("AcceptCashIn", mock.Anything, mock.AnythingOfType("dto.AcceptCashInRequest")).Return(apperrors.ErrInvalidState).Once()

	w := suite.doJSON(http.MethodPut, "/acceptCashIn", agentPhone, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Request is no longer pending", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestRejectCashIn_Success() {
	requestID := uuid.NewString()
	agentPhone := "01800000001"

	// The service is handed the session identity, not anything client-supplied.
	suite.mockLedgerService.On("RejectCashIn", mock.Anything, requestID, agentPhone).Return(nil).Once()

	w := suite.doJSON(http.MethodPut, "/rejectCashIn/"+requestID, agentPhone, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Rejected", resp.Message)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRejectCashIn_ForeignAgentIsSoftError() {
	requestID := uuid.NewString()

	suite.mockLedgerService.On("RejectCashIn", mock.Anything, requestID, "01700000001").Return(apperrors.ErrInvalidAgent).Once()

	w := suite.doJSON(http.MethodPut, "/rejectCashIn/"+requestID, "01700000001", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SoftErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid Agent", resp.ErrorMessage)
}

func (suite *LedgerHandlerTestSuite) TestListPendingCashIn_Success() {
	agentPhone := "01800000001"
	requests := []domain.CashInRequest{
		{
			RequestID:      uuid.NewString(),
			RequesterPhone: "01700000001",
			AgentPhone:     agentPhone,
			Amount:         decimal.NewFromInt(500),
			TotalAmount:    decimal.NewFromInt(500),
			Status:         domain.CashInPending,
			CreatedAt:      time.Now(),
		},
	}

	suite.mockLedgerService.On("ListPendingCashIn", mock.Anything, agentPhone).Return(requests, nil).Once()

	w := suite.doJSON(http.MethodGet, "/cashInReq/"+agentPhone, agentPhone, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.CashInRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(requests[0].RequestID, resp[0].RequestID)
	suite.Equal("pending", resp[0].Status)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Success() {
	phone := "01700000001"
	txns := []domain.Transaction{
		{
			TransactionID:  uuid.NewString(),
			SenderPhone:    phone,
			ReceiverPhone:  "01700000002",
			Amount:         decimal.NewFromInt(20),
			Fee:            decimal.NewFromInt(1),
			TotalPayAmount: decimal.NewFromInt(21),
			Kind:           domain.KindSendMoney,
			CreatedAt:      time.Now(),
		},
	}

	suite.mockLedgerService.On("ListTransactions", mock.Anything, phone, 0).Return(txns, nil).Once()

	w := suite.doJSON(http.MethodGet, "/transactions/"+phone, phone, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(txns[0].TransactionID, resp[0].TransactionID)
	suite.Equal(phone, resp[0].Sender)
	suite.Equal("sendMoney", resp[0].Type)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_ForeignPhoneRejected() {
	w := suite.doJSON(http.MethodGet, "/transactions/01700000002", "01700000001", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/catalog"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/handlers"
	"github.com/SscSPs/geocurrency/internal/platform/config"
	"github.com/SscSPs/geocurrency/internal/utils"
	"github.com/SscSPs/geocurrency/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "geocurrency-test"
	testUserID = "user-1"
)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	// The custom validators bind to the first services they see, so the
	// catalog and unit mocks live as long as the suite.
	catalog *MockCatalogService
	units   *MockUnitService

	rates       *MockRateService
	converter   *MockRateConverter
	unitConv    *MockUnitConverter
	customUnits *MockCustomUnitService
	calculation *MockCalculationService
	watch       *MockWatchService
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.catalog = new(MockCatalogService)
	suite.units = new(MockUnitService)

	suite.catalog.On("GetCurrency", mock.Anything, "XXX").Return(nil, apperrors.NewNotFoundError("currency XXX"))
	suite.catalog.On("GetCurrency", mock.Anything, mock.MatchedBy(func(code string) bool { return code != "XXX" })).
		Return(&catalog.Currency{Code: "EUR", Name: "Euro", Numeric: "978", Exponent: 2}, nil)
	suite.units.On("GetSystem", mock.Anything, mock.Anything).Return(&domain.UnitSystemInfo{Name: "SI"}, nil)
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.rates = new(MockRateService)
	suite.converter = new(MockRateConverter)
	suite.unitConv = new(MockUnitConverter)
	suite.customUnits = new(MockCustomUnitService)
	suite.calculation = new(MockCalculationService)
	suite.watch = new(MockWatchService)
	suite.router = suite.newRouter(testConfig())
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.rates.AssertExpectations(suite.T())
	suite.converter.AssertExpectations(suite.T())
	suite.customUnits.AssertExpectations(suite.T())
	suite.calculation.AssertExpectations(suite.T())
	suite.watch.AssertExpectations(suite.T())
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:    true,
		JWTSecret:       testSecret,
		JWTIssuer:       testIssuer,
		DefaultLanguage: "en",
	}
}

func (suite *HandlerTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	services := &portssvc.ServiceContainer{
		Rate:          suite.rates,
		RateConverter: suite.converter,
		Units:         suite.units,
		UnitConverter: suite.unitConv,
		CustomUnit:    suite.customUnits,
		Calculation:   suite.calculation,
		Catalog:       suite.catalog,
		Watch:         suite.watch,
	}
	err := handlers.RegisterRoutes(r, cfg, services, &utils.PosthogClientWrapper{})
	suite.Require().NoError(err)
	return r
}

func (suite *HandlerTestSuite) token(userID string) string {
	token, err := utils.GenerateJWT(userID, testSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](suite *HandlerTestSuite, w *httptest.ResponseRecorder) T {
	var out T
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sampleRate() domain.Rate {
	user := testUserID
	return domain.Rate{
		ID:           "rate-1",
		UserID:       &user,
		ValueDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Currency:     "USD",
		BaseCurrency: "EUR",
		Value:        decimal.RequireFromString("1.0842"),
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestInvalidTokenRejected() {
	w := suite.do(http.MethodGet, "/api/v1/rates", nil, "not-a-jwt")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListRates_ScopedToViewer() {
	suite.rates.On("ListRates", mock.Anything, mock.MatchedBy(func(f domain.RateFilter) bool {
		return f.Viewer == testUserID && f.Currency == "USD" && f.Ordering == "-value" && f.Offset == 0
	})).Return(&domain.RatePage{Rates: []domain.Rate{sampleRate()}, NextOffset: 100, HasMore: true}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates?currency=USD&ordering=-value", nil, suite.token(testUserID))

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[dto.ListRatesResponse](suite, w)
	suite.Require().Len(resp.Rates, 1)
	suite.Equal("2024-05-01", resp.Rates[0].ValueDate)
	offset, err := pagination.DecodeOffsetToken(resp.NextPageToken, "-value")
	suite.Require().NoError(err)
	suite.Equal(100, offset)
}

func (suite *HandlerTestSuite) TestListRates_PageTokenResumesOffset() {
	token := pagination.EncodeOffsetToken(200, "")
	suite.rates.On("ListRates", mock.Anything, mock.MatchedBy(func(f domain.RateFilter) bool {
		return f.Viewer == "" && f.Offset == 200
	})).Return(&domain.RatePage{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates?page_token="+token, nil, "")

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[dto.ListRatesResponse](suite, w)
	suite.Empty(resp.NextPageToken)
}

func (suite *HandlerTestSuite) TestListRates_TokenOfOtherOrdering() {
	token := pagination.EncodeOffsetToken(100, "")
	w := suite.do(http.MethodGet, "/api/v1/rates?ordering=-value&page_token="+token, nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListRates_InvalidOrdering() {
	w := suite.do(http.MethodGet, "/api/v1/rates?ordering=amount", nil, "")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]any](suite, w)
	suite.Equal("validation error", body["error"])
	fields, ok := body["fields"].(map[string]any)
	suite.Require().True(ok, w.Body.String())
	suite.Contains(fields, "ordering")
}

func (suite *HandlerTestSuite) TestGetRate_ServerErrorHidesCause() {
	suite.rates.On("GetRate", mock.Anything, "rate-1", "").Return(nil, errors.New("connection refused")).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/rate-1", nil, "")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to retrieve rate"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestCreateRate_Anonymous() {
	suite.rates.On("CreateRate", mock.Anything, mock.AnythingOfType("dto.CreateRateRequest"), "").
		Return(nil, apperrors.ErrUnauthorized).Once()

	body := map[string]any{"currency": "USD", "base_currency": "EUR", "value": "1.08"}
	w := suite.do(http.MethodPost, "/api/v1/rates", body, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestCreateRate_Success() {
	rate := sampleRate()
	suite.rates.On("CreateRate", mock.Anything, mock.MatchedBy(func(req dto.CreateRateRequest) bool {
		return req.Currency == "USD" && req.Value != nil && req.Value.Equal(decimal.RequireFromString("1.0842"))
	}), testUserID).Return(&rate, nil).Once()

	body := map[string]any{"currency": "USD", "base_currency": "EUR", "value": "1.0842", "value_date": "2024-05-01"}
	w := suite.do(http.MethodPost, "/api/v1/rates", body, suite.token(testUserID))

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[dto.RateResponse](suite, w)
	suite.Equal("rate-1", resp.ID)
	suite.Require().NotNil(resp.User)
	suite.Equal(testUserID, *resp.User)
}

func (suite *HandlerTestSuite) TestCreateRate_UnknownCurrency() {
	body := map[string]any{"currency": "XXX", "base_currency": "EUR", "value": "1", "value_date": "2024-13-01"}
	w := suite.do(http.MethodPost, "/api/v1/rates", body, suite.token(testUserID))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	resp := decodeBody[struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}](suite, w)
	suite.Equal("validation error", resp.Error)
	suite.Equal([]string{`unknown currency "XXX"`}, resp.Fields["currency"])
	suite.Equal([]string{"must be a YYYY-MM-DD date"}, resp.Fields["value_date"])
}

func (suite *HandlerTestSuite) TestDeleteRate_Forbidden() {
	suite.rates.On("DeleteRate", mock.Anything, "rate-1", testUserID).
		Return(fmt.Errorf("%w: rate rate-1 belongs to another user", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/rates/rate-1", nil, suite.token(testUserID))

	suite.Equal(http.StatusForbidden, w.Code)
}

func convertBody(batchID string, eob bool) map[string]any {
	body := map[string]any{
		"target": "EUR",
		"eob":    eob,
		"data": []map[string]any{
			{"currency": "USD", "amount": "10", "date": "2024-05-01"},
		},
	}
	if batchID != "" {
		body["batch_id"] = batchID
	}
	return body
}

func (suite *HandlerTestSuite) TestConvertRates_OpenBatchReturnsStatus() {
	batchID := "8a4c5f1e-3a7e-4c35-9a38-0d9a6f0ab0e2"
	suite.converter.On("Convert", mock.Anything, mock.MatchedBy(func(req dto.ConvertRatesRequest) bool {
		return req.BatchID == batchID && !req.EOB && len(req.Data) == 1
	}), "").Return(&domain.RateConversionResult{ID: batchID, Status: "inserting"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/rates/convert", convertBody(batchID, false), "")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.JSONEq(fmt.Sprintf(`{"id":%q,"status":"inserting"}`, batchID), w.Body.String())
}

func (suite *HandlerTestSuite) TestConvertRates_FinishedReturnsResult() {
	suite.converter.On("Convert", mock.Anything, mock.AnythingOfType("dto.ConvertRatesRequest"), testUserID).
		Return(&domain.RateConversionResult{
			ID:     "batch-1",
			Target: "EUR",
			Detail: []domain.RateConversionDetail{{
				Currency:       "USD",
				Amount:         decimal.NewFromInt(10),
				Date:           "2024-05-01",
				ConversionRate: decimal.RequireFromString("0.9"),
				ConvertedValue: decimal.NewFromInt(9),
			}},
			Sum:    decimal.NewFromInt(9),
			Status: "finished",
		}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/rates/convert", convertBody("", true), suite.token(testUserID))

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[domain.RateConversionResult](suite, w)
	suite.Equal("finished", resp.Status)
	suite.True(resp.Sum.Equal(decimal.NewFromInt(9)))
	suite.Len(resp.Detail, 1)
}

func (suite *HandlerTestSuite) TestConvertRates_BadBatchID() {
	w := suite.do(http.MethodPost, "/api/v1/rates/convert", convertBody("not-a-uuid", false), "")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	resp := decodeBody[struct {
		Fields map[string][]string `json:"fields"`
	}](suite, w)
	suite.Equal([]string{"must be a UUID"}, resp.Fields["batch_id"])
}

func (suite *HandlerTestSuite) TestValidateFormulas_Invalid() {
	calcErr := domain.CalculationError{
		Expression: "{a}+{b}",
		Code:       domain.CodeDimensionality,
		Error:      "cannot add [length] and [time]",
	}
	suite.calculation.On("Validate", mock.Anything, "SI", mock.AnythingOfType("dto.CalculationRequest"), "").
		Return([]domain.CalculationError{calcErr}, nil).Once()

	body := map[string]any{"data": []map[string]any{{
		"expression": "{a}+{b}",
		"operands": []map[string]any{
			{"name": "a", "value": 1, "unit": "meter"},
			{"name": "b", "value": 2, "unit": "second"},
		},
	}}}
	w := suite.do(http.MethodPost, "/api/v1/units/SI/formulas/validate", body, "")

	suite.Require().Equal(http.StatusNotAcceptable, w.Code, w.Body.String())
	resp := decodeBody[dto.ValidationResponse](suite, w)
	suite.False(resp.Valid)
	suite.Require().Len(resp.Errors, 1)
	suite.Equal(domain.CodeDimensionality, resp.Errors[0].Code)
}

func (suite *HandlerTestSuite) TestValidateFormulas_Valid() {
	suite.calculation.On("Validate", mock.Anything, "SI", mock.AnythingOfType("dto.CalculationRequest"), "").
		Return([]domain.CalculationError{}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/units/SI/formulas/validate", map[string]any{"data": []any{}}, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"valid":true}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestCalculate_OpenBatchReturnsStatus() {
	suite.calculation.On("Calculate", mock.Anything, "SI", mock.AnythingOfType("dto.CalculationRequest"), "").
		Return(&domain.CalculationResult{ID: "batch-2", Status: "initiated"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/units/SI/formulas/calculate", map[string]any{"data": []any{}}, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"id":"batch-2","status":"initiated"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestListCustomUnits_KeyOnlyWhenGiven() {
	suite.customUnits.On("ListCustomUnits", mock.Anything, mock.MatchedBy(func(f domain.CustomUnitFilter) bool {
		return f.UnitSystem == "SI" && f.Viewer == testUserID && f.Key == nil
	})).Return([]domain.CustomUnit{}, nil).Once()
	suite.customUnits.On("ListCustomUnits", mock.Anything, mock.MatchedBy(func(f domain.CustomUnitFilter) bool {
		return f.Key != nil && *f.Key == ""
	})).Return([]domain.CustomUnit{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/units/SI/custom", nil, suite.token(testUserID))
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/units/SI/custom?key=", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteCustomUnit_Forbidden() {
	suite.customUnits.On("DeleteCustomUnit", mock.Anything, "SI", "cu-1", testUserID).
		Return(fmt.Errorf("%w: custom unit cu-1", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/units/SI/custom/cu-1", nil, suite.token(testUserID))

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestCreateCustomUnit_Duplicate() {
	suite.customUnits.On("CreateCustomUnit", mock.Anything, "SI", mock.AnythingOfType("dto.CustomUnitRequest"), testUserID).
		Return(nil, apperrors.NewConflictError("custom unit myunit")).Once()

	body := map[string]any{"code": "myunit", "name": "My unit", "relation": "0.2 meter", "symbol": "mu"}
	w := suite.do(http.MethodPost, "/api/v1/units/SI/custom", body, suite.token(testUserID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestWatch_NotFound() {
	suite.watch.On("Watch", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("batch missing")).Once()

	w := suite.do(http.MethodGet, "/api/v1/watch/missing", nil, "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"error":"resource not found: batch missing"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestWatch_Found() {
	suite.watch.On("Watch", mock.Anything, "b1").Return(&domain.BatchStatus{ID: "b1", Status: "finished"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/watch/b1", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"id":"b1","status":"finished"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestCatalog_ListCurrencies() {
	suite.catalog.On("ListCurrencies", mock.Anything, "eur", "-code").
		Return([]catalog.Currency{{Code: "EUR", Name: "Euro"}}).Once()

	w := suite.do(http.MethodGet, "/api/v1/currencies?search=eur&ordering=-code", nil, "")

	suite.Require().Equal(http.StatusOK, w.Code)
	list := decodeBody[[]catalog.Currency](suite, w)
	suite.Require().Len(list, 1)
	suite.Equal("EUR", list[0].Code)
}

func (suite *HandlerTestSuite) TestCatalog_UnknownCountry() {
	suite.catalog.On("GetCountry", mock.Anything, "ZZ").Return(nil, apperrors.NewNotFoundError("country ZZ")).Once()

	w := suite.do(http.MethodGet, "/api/v1/countries/ZZ", nil, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCatalog_ColorRequired() {
	w := suite.do(http.MethodGet, "/api/v1/countries/colors", nil, "")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	resp := decodeBody[struct {
		Fields map[string][]string `json:"fields"`
	}](suite, w)
	suite.Equal([]string{"is required"}, resp.Fields["color"])
}

func (suite *HandlerTestSuite) TestRateLimitOnConversions() {
	cfg := testConfig()
	cfg.RateLimit = "1-M"
	suite.router = suite.newRouter(cfg)
	suite.converter.On("Convert", mock.Anything, mock.AnythingOfType("dto.ConvertRatesRequest"), "").
		Return(&domain.RateConversionResult{ID: "b", Status: "finished"}, nil).Once()

	first := suite.do(http.MethodPost, "/api/v1/rates/convert", convertBody("", true), "")
	second := suite.do(http.MethodPost, "/api/v1/rates/convert", convertBody("", true), "")

	suite.Equal(http.StatusOK, first.Code)
	suite.Equal("1", first.Header().Get("X-RateLimit-Limit"))
	suite.Equal(http.StatusTooManyRequests, second.Code)
}

func (suite *HandlerTestSuite) TestRateLimitSkipsLookups() {
	cfg := testConfig()
	cfg.RateLimit = "1-M"
	suite.router = suite.newRouter(cfg)
	suite.watch.On("Watch", mock.Anything, "b1").Return(&domain.BatchStatus{ID: "b1", Status: "finished"}, nil).Twice()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/watch/b1", nil, "").Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/watch/b1", nil, "").Code)
}

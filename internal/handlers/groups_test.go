package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notification-service/internal/mocks"
	"notification-service/internal/models"
	"notification-service/internal/notify"
	"notification-service/internal/push"
	"notification-service/internal/repositories"
)

func setupGroupRouter(handler *GroupHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/groups/join", handler.JoinGroupByCode)
	r.POST("/notifications/group-alert", handler.SendGroupAlert)
	return r
}

func newAlertHandler(groups *mocks.GroupRepositoryMock, users *mocks.UserRepositoryMock, tokens *mocks.TokenRepositoryMock, transport *mocks.TransportMock) *GroupHandler {
	resolver := notify.NewResolver(groups, users, tokens, "honoree")
	dispatcher := notify.NewDispatcher(transport, tokens)
	return NewGroupHandler(groups, resolver, dispatcher, nil)
}

func TestJoinGroupByCodeSuccess(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := newAlertHandler(groups, new(mocks.UserRepositoryMock), new(mocks.TokenRepositoryMock), new(mocks.TransportMock))
	router := setupGroupRouter(handler, "u1")

	groups.On("FindByJoinCode", mock.Anything, "PARTY42").Return(models.Group{ID: "G1", JoinCode: "PARTY42"}, nil).Once()
	groups.On("AddMember", mock.Anything, "G1", "u1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/join", bytes.NewBufferString(`{"code":"PARTY42"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "G1", resp["group_id"])
	groups.AssertExpectations(t)
}

func TestJoinGroupByCodeUnknownCode(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := newAlertHandler(groups, new(mocks.UserRepositoryMock), new(mocks.TokenRepositoryMock), new(mocks.TransportMock))
	router := setupGroupRouter(handler, "u1")

	groups.On("FindByJoinCode", mock.Anything, "NOPE").Return(models.Group{}, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/join", bytes.NewBufferString(`{"code":"NOPE"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	groups.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinGroupByCodeUnauthenticated(t *testing.T) {
	handler := newAlertHandler(new(mocks.GroupRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TokenRepositoryMock), new(mocks.TransportMock))
	router := setupGroupRouter(handler, "")

	req := httptest.NewRequest(http.MethodPost, "/groups/join", bytes.NewBufferString(`{"code":"PARTY42"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJoinGroupByCodeMissingCode(t *testing.T) {
	handler := newAlertHandler(new(mocks.GroupRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TokenRepositoryMock), new(mocks.TransportMock))
	router := setupGroupRouter(handler, "u1")

	req := httptest.NewRequest(http.MethodPost, "/groups/join", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendGroupAlertSuccess(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	tokens := new(mocks.TokenRepositoryMock)
	transport := new(mocks.TransportMock)
	handler := newAlertHandler(groups, users, tokens, transport)
	router := setupGroupRouter(handler, "u1")

	groups.On("GetGroup", mock.Anything, "G1").Return(models.Group{ID: "G1", Members: []string{"X"}}, nil).Once()
	users.On("UsersByIDs", mock.Anything, []string{"X"}).Return([]models.User{{ID: "X", GroupID: "G1", Role: "honoree"}}, nil).Once()
	tokens.On("TokensForUsers", mock.Anything, []string{"X"}).Return([]string{"tX"}, nil).Once()
	transport.On("SendMulticast", mock.Anything, []string{"tX"}, mock.Anything).Return(push.MulticastResult{
		SuccessCount: 1,
		Responses:    []push.SendResponse{{Success: true}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/group-alert", bytes.NewBufferString(`{"group_id":"G1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Sent    int  `json:"sent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Sent)
	transport.AssertExpectations(t)
}

func TestSendGroupAlertNoTokens(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	tokens := new(mocks.TokenRepositoryMock)
	transport := new(mocks.TransportMock)
	handler := newAlertHandler(groups, users, tokens, transport)
	router := setupGroupRouter(handler, "u1")

	groups.On("GetGroup", mock.Anything, "G1").Return(models.Group{ID: "G1", Members: []string{"A"}}, nil).Once()
	users.On("UsersByIDs", mock.Anything, []string{"A"}).Return([]models.User{{ID: "A", GroupID: "G1", Role: "member"}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/group-alert", bytes.NewBufferString(`{"group_id":"G1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "NO_TOKENS", resp.Reason)
	transport.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendGroupAlertGroupNotFound(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := newAlertHandler(groups, new(mocks.UserRepositoryMock), new(mocks.TokenRepositoryMock), new(mocks.TransportMock))
	router := setupGroupRouter(handler, "u1")

	groups.On("GetGroup", mock.Anything, "gone").Return(models.Group{}, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/group-alert", bytes.NewBufferString(`{"group_id":"gone"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

package friendship

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup-service/pkg/apperrors"
	"linkup-service/pkg/response"
)

func newTestRouter(svc *Service, caller uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", caller)
		c.Next()
	})

	handler := NewHandler(svc)
	router.POST("/friends", handler.SendRequest)
	router.DELETE("/friends", handler.Remove)
	router.GET("/friends/requests/:userId", handler.ListIncoming)
	router.PUT("/friends/:id/accept", handler.Accept)
	router.DELETE("/friends/:id/reject", handler.Reject)
	router.GET("/users/:id/friends", handler.GetFriends)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestSendRequestEndpoint(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	amy := users.add("Amy")
	router := newTestRouter(svc, john.ID)

	w := doJSON(t, router, http.MethodPost, "/friends",
		SendRequestRequest{UserID: john.ID, FriendID: amy.ID})

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "OK", envelope.Code)
}

func TestSendRequestEndpointDuplicate(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	amy := users.add("Amy")
	router := newTestRouter(svc, john.ID)

	body := SendRequestRequest{UserID: john.ID, FriendID: amy.ID}
	w := doJSON(t, router, http.MethodPost, "/friends", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/friends", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, apperrors.CodeConflict, envelope.Code)
	assert.Equal(t, "friend request already sent", envelope.Message)
}

func TestSendRequestEndpointSelf(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	router := newTestRouter(svc, john.ID)

	w := doJSON(t, router, http.MethodPost, "/friends",
		SendRequestRequest{UserID: john.ID, FriendID: john.ID})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendRequestEndpointOnBehalfOfAnother(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	amy := users.add("Amy")
	sam := users.add("Sam")
	router := newTestRouter(svc, john.ID)

	w := doJSON(t, router, http.MethodPost, "/friends",
		SendRequestRequest{UserID: sam.ID, FriendID: amy.ID})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAcceptEndpointUnknownID(t *testing.T) {
	svc, users := newTestService()
	amy := users.add("Amy")
	router := newTestRouter(svc, amy.ID)

	w := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/friends/%s/accept", uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptEndpointInvalidID(t *testing.T) {
	svc, users := newTestService()
	amy := users.add("Amy")
	router := newTestRouter(svc, amy.ID)

	w := doJSON(t, router, http.MethodPut, "/friends/not-a-uuid/accept", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestAcceptListRoundTrip(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	amy := users.add("Amy")

	johnRouter := newTestRouter(svc, john.ID)
	amyRouter := newTestRouter(svc, amy.ID)

	w := doJSON(t, johnRouter, http.MethodPost, "/friends",
		SendRequestRequest{UserID: john.ID, FriendID: amy.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, amyRouter, http.MethodGet,
		fmt.Sprintf("/friends/requests/%s", amy.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Data struct {
			Requests []IncomingRequest `json:"requests"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Data.Requests, 1)
	assert.Equal(t, john.ID, listing.Data.Requests[0].Requester.ID)

	w = doJSON(t, amyRouter, http.MethodPut,
		fmt.Sprintf("/friends/%s/accept", listing.Data.Requests[0].FriendshipID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, johnRouter, http.MethodGet,
		fmt.Sprintf("/users/%s/friends", john.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var friends struct {
		Data struct {
			Friends []FriendEntry `json:"friends"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friends))
	require.Len(t, friends.Data.Friends, 1)
	assert.Equal(t, amy.ID, friends.Data.Friends[0].User.ID)
}

func TestRemoveEndpoint(t *testing.T) {
	svc, users := newTestService()
	john := users.add("John")
	amy := users.add("Amy")
	router := newTestRouter(svc, john.ID)

	edge, err := svc.SendRequest(context.Background(), john.ID, amy.ID)
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), amy.ID, edge.ID)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodDelete, "/friends",
		RemoveRequest{UserID: john.ID, FriendID: amy.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/friends",
		RemoveRequest{UserID: john.ID, FriendID: amy.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

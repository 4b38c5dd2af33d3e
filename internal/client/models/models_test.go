package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DecodesBackendFieldNames(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"username":"bob","is_admin":true,"user_plan":"premium"}`), &u))

	assert.Equal(t, User{ID: 7, Username: "bob", IsAdmin: true, Plan: common.PlanPremium}, u)
	assert.Equal(t, "Administrator", u.Role())
	assert.Equal(t, "Regular User", User{}.Role())
}

func TestQueryRequest_OmitsZeroDocument(t *testing.T) {
	b, err := json.Marshal(QueryRequest{Query: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"hi"}`, string(b))

	b, err = json.Marshal(QueryRequest{Query: "hi", DocumentID: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"hi","document_id":3}`, string(b))
}

func TestDashboard_Message(t *testing.T) {
	assert.Equal(t, "hello", Dashboard{"message": "hello"}.Message())
	assert.Empty(t, Dashboard{"message": 3}.Message())
	assert.Empty(t, Dashboard(nil).Message())
}

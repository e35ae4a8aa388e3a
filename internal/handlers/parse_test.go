package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jwebster45206/chronicle/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandler(t *testing.T) {
	env := newTestEnv()

	body, err := json.Marshal(ParseRequest{
		Text:     "<response><message>Hi</message><item1>Rope</item1></response><event>XP:25</event>",
		Language: "en",
	})
	require.NoError(t, err)

	rr := env.do(http.MethodPost, "/v1/parse", string(body))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ParseResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Fallback)
	assert.Equal(t, "Hi", resp.Message)
	require.NotNil(t, resp.Update)
	assert.Equal(t, []string{"Rope"}, resp.Update.Inventory)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "XP +25", resp.Events[0].Display)
}

func TestParseHandler_MalformedConfigRendersRawText(t *testing.T) {
	env := newTestEnv()
	raw := `<response><message>Hi</message><stat1><name>Luck</name><value>7</value><config>{"type":"dice"}</config></stat1></response>`

	body, err := json.Marshal(ParseRequest{Text: raw})
	require.NoError(t, err)

	rr := env.do(http.MethodPost, "/v1/parse", string(body))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ParseResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Fallback)
	assert.Nil(t, resp.Update)
	assert.Equal(t, response.NormalizeMessage(raw), resp.Message)
	assert.Contains(t, resp.Error, "stat1")
	assert.NotNil(t, resp.Events)
}

func TestParseHandler_InvalidBody(t *testing.T) {
	rr := newTestEnv().do(http.MethodPost, "/v1/parse", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

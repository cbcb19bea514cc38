package monday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakebridge/internal/integrations/upstream"
)

type recordedCall struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestClient(t *testing.T, respond func(call recordedCall) (int, string)) (*Client, *[]recordedCall) {
	t.Helper()
	calls := []recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		var call recordedCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		calls = append(calls, call)
		status, body := respond(call)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "token-1", srv.Client()), &calls
}

func TestCreateItem(t *testing.T) {
	client, calls := newTestClient(t, func(call recordedCall) (int, string) {
		return http.StatusOK, `{"data":{"create_item":{"id":"101","name":"12345 | Ana Lopez"}}}`
	})

	item, err := client.CreateItem(context.Background(), "board-9", "12345 | Ana Lopez", "")
	require.NoError(t, err)
	assert.Equal(t, Item{ID: "101", Name: "12345 | Ana Lopez"}, item)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Contains(t, call.Query, "create_item")
	assert.Equal(t, "board-9", call.Variables["boardId"])
	assert.Nil(t, call.Variables["groupId"])
}

func TestChangeColumnValuesEncodesJSONString(t *testing.T) {
	client, calls := newTestClient(t, func(call recordedCall) (int, string) {
		return http.StatusOK, `{"data":{"change_multiple_column_values":{"id":"101","name":"x"}}}`
	})

	_, err := client.ChangeColumnValues(context.Background(), "board-9", "101", ColumnValues{
		"color_mktd81zp": StatusValue{Label: "Illinois"},
		"phone_mktdphra": PhoneValue{Phone: "+13125550182", CountryShortName: "US"},
	})
	require.NoError(t, err)

	cv, ok := (*calls)[0].Variables["cv"].(string)
	require.True(t, ok, "column values must be sent as a JSON string")
	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(cv), &decoded))
	assert.Equal(t, "Illinois", decoded["color_mktd81zp"]["label"])
	assert.Equal(t, "US", decoded["phone_mktdphra"]["countryShortName"])
}

func TestFindItemByColumn(t *testing.T) {
	client, calls := newTestClient(t, func(call recordedCall) (int, string) {
		if call.Variables["value"] == "eng-1" {
			return http.StatusOK, `{"data":{"boards":[{"items_page":{"items":[{"id":"77","name":"found"}]}}]}}`
		}
		return http.StatusOK, `{"data":{"boards":[{"items_page":{"items":[]}}]}}`
	})

	item, err := client.FindItemByColumn(context.Background(), "board-9", "text_mkv7j2fq", "eng-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "77", item.ID)
	assert.Contains(t, (*calls)[0].Query, "contains_text")

	missing, err := client.FindItemByColumn(context.Background(), "board-9", "text_mkv7j2fq", "eng-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGraphQLErrorsBecomeUpstreamErrors(t *testing.T) {
	client, _ := newTestClient(t, func(call recordedCall) (int, string) {
		return http.StatusOK, `{"errors":[{"message":"Column not found"}]}`
	})

	_, err := client.CreateItem(context.Background(), "board-9", "x", "")
	upErr, ok := upstream.As(err)
	require.True(t, ok)
	assert.True(t, strings.Contains(upErr.Body, "Column not found"))
}

func TestHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(call recordedCall) (int, string) {
		return http.StatusUnauthorized, `{"error_message":"Not Authenticated"}`
	})

	_, err := client.CreateItem(context.Background(), "board-9", "x", "")
	upErr, ok := upstream.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
}

func TestColumnMapMerge(t *testing.T) {
	merged := DefaultColumns().Merge(map[string]string{ColSite: "text_custom", ColShift: ""})
	assert.Equal(t, "text_custom", merged[ColSite])
	assert.Equal(t, "text_mkwn6bzw", merged[ColShift])
	assert.Equal(t, "text_mktj4gmt", DefaultColumns()[ColSite])
}

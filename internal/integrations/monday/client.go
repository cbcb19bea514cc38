// Package monday talks to the Monday.com GraphQL API: item creation, column
// updates and lookup by column value.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"intakebridge/internal/integrations/upstream"
)

const (
	Service    = "monday"
	DefaultURL = "https://api.monday.com/v2"
)

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Client struct {
	url   string
	token string
	http  *http.Client
}

func New(apiURL, token string, httpClient *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: apiURL, token: token, http: httpClient}
}

func (c *Client) Configured() bool {
	return c.token != ""
}

const createItemMutation = `mutation ($boardId: ID!, $itemName: String!, $groupId: String) {
  create_item (board_id: $boardId, item_name: $itemName, group_id: $groupId) {
    id
    name
  }
}`

const changeColumnsMutation = `mutation ($boardId: ID!, $itemId: ID!, $cv: JSON!) {
  change_multiple_column_values (board_id: $boardId, item_id: $itemId, column_values: $cv) {
    id
    name
  }
}`

const findByColumnQuery = `query ($boardId: ID!, $columnId: ID!, $value: CompareValue!) {
  boards (ids: [$boardId]) {
    items_page (limit: 1, query_params: {rules: [{column_id: $columnId, compare_value: $value, operator: contains_text}]}) {
      items {
        id
        name
      }
    }
  }
}`

func (c *Client) CreateItem(ctx context.Context, boardID, itemName, groupID string) (Item, error) {
	vars := map[string]any{
		"boardId":  boardID,
		"itemName": itemName,
		"groupId":  nil,
	}
	if groupID != "" {
		vars["groupId"] = groupID
	}
	var out struct {
		CreateItem Item `json:"create_item"`
	}
	if err := c.do(ctx, createItemMutation, vars, &out); err != nil {
		return Item{}, err
	}
	return out.CreateItem, nil
}

// ChangeColumnValues sends the column map JSON-encoded, as the API expects a
// JSON scalar rather than an object.
func (c *Client) ChangeColumnValues(ctx context.Context, boardID, itemID string, values ColumnValues) (Item, error) {
	encoded, err := json.Marshal(values)
	if err != nil {
		return Item{}, err
	}
	vars := map[string]any{
		"boardId": boardID,
		"itemId":  itemID,
		"cv":      string(encoded),
	}
	var out struct {
		Change Item `json:"change_multiple_column_values"`
	}
	if err := c.do(ctx, changeColumnsMutation, vars, &out); err != nil {
		return Item{}, err
	}
	return out.Change, nil
}

// FindItemByColumn returns the first item whose column text contains value,
// or nil when nothing matches.
func (c *Client) FindItemByColumn(ctx context.Context, boardID, columnID, value string) (*Item, error) {
	vars := map[string]any{
		"boardId":  boardID,
		"columnId": columnID,
		"value":    value,
	}
	var out struct {
		Boards []struct {
			ItemsPage struct {
				Items []Item `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	}
	if err := c.do(ctx, findByColumnQuery, vars, &out); err != nil {
		return nil, err
	}
	for _, b := range out.Boards {
		if len(b.ItemsPage.Items) > 0 {
			item := b.ItemsPage.Items[0]
			return &item, nil
		}
	}
	return nil, nil
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	if !c.Configured() {
		return upstream.NewError(Service, http.StatusInternalServerError, "MONDAY_API_KEY not configured.")
	}
	payload, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return upstream.NewError(Service, http.StatusInternalServerError, err.Error())
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, err.Error())
	}

	var gql graphQLResponse
	if err := json.Unmarshal(body, &gql); err != nil {
		status := resp.StatusCode
		if status >= 200 && status <= 299 {
			status = http.StatusBadGateway
		}
		return upstream.NewError(Service, status, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstream.NewError(Service, resp.StatusCode, string(body))
	}
	if errs := strings.TrimSpace(string(gql.Errors)); errs != "" && errs != "null" && errs != "[]" {
		return upstream.NewError(Service, resp.StatusCode, errs)
	}
	if out == nil || len(gql.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, "unexpected Monday response: "+err.Error())
	}
	return nil
}

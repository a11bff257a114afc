package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// BeginSend submits a message and returns the accepted operation.
func (c *Client) BeginSend(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	path := fmt.Sprintf("/emails:send?api-version=%s", apiVersion)
	var result SendResponse
	if err := c.do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSendResult reads the current state of a send operation.
func (c *Client) GetSendResult(ctx context.Context, operationID string) (*SendResult, error) {
	path := fmt.Sprintf("/emails/operations/%s?api-version=%s",
		url.PathEscape(operationID), apiVersion)
	var result SendResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

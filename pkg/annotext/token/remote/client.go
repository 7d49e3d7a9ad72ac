// Package remote calls an external tokenizer/tagger service over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cognicore/annotext/pkg/annotext/token"
)

// Client posts plain text to a tokenizer endpoint and decodes the token
// sequence it returns. The endpoint contract is the token.Tokenizer one:
// ordered tokens with byte offsets into the submitted text.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []wireToken `json:"tokens"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type wireToken struct {
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Tokenize implements token.Tokenizer.
func (c *Client) Tokenize(ctx context.Context, text string) ([]token.Token, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("tokenizer: base URL required")
	}

	reqBody, err := json.Marshal(tokenizeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload tokenizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("tokenizer error: %s", payload.Error.Message)
	}

	tokens := make([]token.Token, len(payload.Tokens))
	for i, wt := range payload.Tokens {
		tokens[i] = token.Token{Index: wt.Index, Start: wt.Start, End: wt.End}
	}
	return tokens, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
	"github.com/go-playground/validator/v10"
)

const maxResponseBodySize = 1 << 20

type Sender interface {
	SendText(ctx context.Context, to string, body string) (Response, error)
}

type cloudAPI struct {
	cfg      Config
	client   httpclient.HTTPClient
	validate *validator.Validate
}

func NewCloudAPI(cfg Config, client httpclient.HTTPClient, validate *validator.Validate) Sender {
	return &cloudAPI{cfg: cfg, client: client, validate: validate}
}

// MessagesURL builds {base}/{version}/{phone number id}/messages.
func MessagesURL(cfg Config) string {
	return fmt.Sprintf("%s/%s/%s/messages",
		strings.TrimRight(cfg.BaseURL, "/"), cfg.APIVersion, url.PathEscape(cfg.PhoneNumberID))
}

func (c *cloudAPI) SendText(ctx context.Context, to string, body string) (Response, error) {
	if c.cfg.AccessToken == "" {
		return Response{}, ErrMissingAccessToken
	}
	if c.cfg.PhoneNumberID == "" {
		return Response{}, ErrMissingPhoneNumberID
	}

	request := SendMessageRequest{
		MessagingProduct: MessagingProduct,
		To:               to,
		Text:             TextBody{Body: body},
	}
	if err := c.validate.Struct(request); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Response{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.AccessToken,
		"Content-Type":  "application/json",
	}

	resp, err := c.client.Post(ctx, MessagesURL(c.cfg), &buf, headers)
	if err != nil {
		if isTimeout(err) {
			return Response{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}

		return Response{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var response Response
		if err := json.Unmarshal(payload, &response); err != nil {
			return Response{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       payload,
		Err:        MapStatusToError(resp.StatusCode),
	}

	var envelope struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		apiErr.Graph = envelope.Error
	}

	return Response{}, apiErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

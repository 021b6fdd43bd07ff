package switchbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production endpoint of the vendor cloud API.
const DefaultBaseURL = "https://api.switch-bot.com/v1.0"

const contentType = "application/json; charset=utf8"

// Client is a thin wrapper over the vendor REST API. It attaches the static
// bearer token and content type to every request and performs no retries;
// retry policy belongs to the caller's poll cycle.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client authenticated with the given open token.
func NewClient(token string) *Client {
	return NewClientWithURL(token, DefaultBaseURL)
}

// NewClientWithURL creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithURL(token, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Devices fetches the discovery lists: cloud devices and infrared remotes.
func (c *Client) Devices(ctx context.Context) ([]Device, []IRDevice, error) {
	raw, err := c.do(ctx, http.MethodGet, "/devices", nil)
	if err != nil {
		return nil, nil, err
	}

	var envelope devicesEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, &ProtocolError{Op: "list devices", Message: err.Error()}
	}
	if envelope.Message != "success" {
		return nil, nil, &ProtocolError{Op: "list devices", Message: envelope.Message}
	}

	return envelope.Body.DeviceList, envelope.Body.InfraredRemoteList, nil
}

// Status reads the current status of one device.
func (c *Client) Status(ctx context.Context, deviceID string) (*Status, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%s/status", deviceID), nil)
	if err != nil {
		return nil, err
	}

	var envelope statusEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ProtocolError{Op: "read status", Message: err.Error()}
	}
	if envelope.Message != "success" {
		return nil, &ProtocolError{Op: "read status", Message: envelope.Message}
	}

	// A success envelope without a body is itself a reading: the mappers
	// treat it as an unreachable device.
	return envelope.Body, nil
}

// SendCommand posts a command payload to one device and decodes the
// acknowledgement. A non-success embedded status code is returned inside
// the ack, not as an error; callers classify it.
func (c *Client) SendCommand(ctx context.Context, deviceID string, cmd *Command) (*CommandAck, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	log.Debug().
		Str("device", deviceID).
		Str("command", cmd.Command).
		Str("parameter", cmd.Parameter).
		Str("commandType", cmd.CommandType).
		Msg("Sending command to vendor API")

	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/devices/%s/commands", deviceID), body)
	if err != nil {
		return nil, err
	}

	ack := &CommandAck{Raw: raw}
	if err := json.Unmarshal(raw, ack); err != nil {
		return nil, &ProtocolError{Op: "send command", Message: err.Error()}
	}

	return ack, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}

	return raw, nil
}

// Package client speaks the receiver side of the transfer protocol over
// HTTP(S): discover, ask and upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
	"github.com/DeBrosOfficial/opendrop/pkg/tlsutil"
)

const (
	opDiscover = "Discover"
	opAsk      = "Ask"
	opUpload   = "Upload"
)

// Client performs protocol exchanges with receivers.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *logging.ColoredLogger
}

// New creates a client. A nil logger discards output.
func New(cfg Config, logger *logging.ColoredLogger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}

	httpClient, err := tlsutil.NewHTTPClient(cfg.Timeout, tlsutil.Options{
		CACertPath:         cfg.CACertPath,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return nil, errors.NewValidationError("client.ca_cert_path", err.Error(), cfg.CACertPath)
	}

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}, nil
}

type discoverResponse struct {
	ReceiverComputerName string `json:"ReceiverComputerName"`
	ReceiverModelName    string `json:"ReceiverModelName,omitempty"`
}

// Discover asks the receiver at ep for its display name. An empty name means
// the receiver answered but does not want to be seen by this sender.
func (c *Client) Discover(ctx context.Context, ep peer.Endpoint, payload Payload) (string, error) {
	body, contentType, err := c.requestBody(map[string]interface{}{}, payload)
	if err != nil {
		return "", errors.NewProtocolError(opDiscover, 0, err)
	}

	resp, err := c.post(ctx, ep, opDiscover, contentType, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewProtocolError(opDiscover, resp.StatusCode, nil)
	}

	var out discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.NewProtocolError(opDiscover, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.ComponentDebug(logging.ComponentClient, "Discover answered",
		zap.String("endpoint", ep.String()),
		zap.String("receiver", out.ReceiverComputerName))

	return out.ReceiverComputerName, nil
}

// Ask requests permission to send the file at path. accepted is false when
// the receiver declines; err is reserved for failed exchanges.
func (c *Client) Ask(ctx context.Context, ep peer.Endpoint, path string, payload Payload) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.NewValidationError("file", err.Error(), path)
	}

	fields := map[string]interface{}{
		"BundleID": "com.apple.finder",
		"Files": []map[string]interface{}{{
			"FileName":            filepath.Base(path),
			"FileType":            "public.content",
			"FileBomPath":         "./" + filepath.Base(path),
			"FileIsDirectory":     info.IsDir(),
			"ConvertMediaFormats": false,
		}},
	}

	body, contentType, err := c.requestBody(fields, payload)
	if err != nil {
		return false, errors.NewProtocolError(opAsk, 0, err)
	}

	resp, err := c.post(ctx, ep, opAsk, contentType, body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.ComponentDebug(logging.ComponentClient, "Ask declined",
			zap.String("endpoint", ep.String()),
			zap.Int("status", resp.StatusCode))
		return false, nil
	}
	return true, nil
}

// Upload sends the file at path. When rawCPIO is set that file is sent
// unchanged instead of an archive built from path.
func (c *Client) Upload(ctx context.Context, ep peer.Endpoint, path, rawCPIO string) error {
	var body io.Reader
	if rawCPIO != "" {
		f, err := os.Open(rawCPIO)
		if err != nil {
			return errors.NewValidationError("rawcpio", err.Error(), rawCPIO)
		}
		defer f.Close()
		body = f
	} else {
		if _, err := os.Stat(path); err != nil {
			return errors.NewValidationError("file", err.Error(), path)
		}
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writeArchive(pw, path))
		}()
		defer pr.Close()
		body = pr
	}

	resp, err := c.post(ctx, ep, opUpload, "application/x-cpio", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.NewProtocolError(opUpload, resp.StatusCode, nil)
	}

	c.logger.ComponentInfo(logging.ComponentClient, "Upload finished",
		zap.String("endpoint", ep.String()))
	return nil
}

// requestBody merges the sender identity, fields and the payload. A binary
// payload is sent as is.
func (c *Client) requestBody(fields map[string]interface{}, payload Payload) (io.Reader, string, error) {
	if payload.Binary != nil {
		return bytes.NewReader(payload.Binary), "application/octet-stream", nil
	}

	body := map[string]interface{}{
		"SenderComputerName": c.cfg.ComputerName,
		"SenderModelName":    c.cfg.ComputerModel,
	}
	for k, v := range fields {
		body[k] = v
	}
	for k, v := range payload.JSON {
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) post(ctx context.Context, ep peer.Endpoint, op, contentType string, body io.Reader) (*http.Response, error) {
	u := url.URL{
		Scheme: c.cfg.Scheme,
		Host:   ep.WithZone(c.cfg.Interface).HostPort(),
		Path:   "/" + op,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, errors.NewProtocolError(op, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "AirDrop/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.NewTimeoutError(op, time.Since(start).Round(time.Millisecond).String())
		}
		return nil, errors.NewProtocolError(op, 0, err)
	}
	return resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

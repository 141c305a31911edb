// Package inference sends captured images to external diagnostic models and
// normalizes their heterogeneous replies into the canonical DiagnosisResult.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/verdant-health/clinsight/internal/domain"
)

type Dispatcher struct {
	httpClient *http.Client
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Dispatch performs one multipart request against the model endpoint (single
// part, field "file") and normalizes the reply through the model's adapter.
// Failures come back as *domain.DispatchError; callers decide whether to
// retry, never this package.
func (d *Dispatcher) Dispatch(ctx context.Context, model domain.ModelDescriptor, input *domain.DiagnosticInput) (*domain.DiagnosisResult, error) {
	if input == nil {
		return nil, domain.ErrNoInput
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", input.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(input.Media); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, model.EndpointURL, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &domain.DispatchError{ProviderMessage: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.DispatchError{Status: resp.StatusCode, ProviderMessage: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.DispatchError{
			Status:          resp.StatusCode,
			ProviderMessage: providerMessage(payload),
		}
	}

	result, err := Normalize(model.Adapter, payload)
	if err != nil {
		return nil, fmt.Errorf("normalize %s reply: %w", model.Name, err)
	}
	return result, nil
}

// providerMessage pulls a human-readable message out of an error payload.
// FastAPI-style providers put it in "detail".
func providerMessage(payload []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		msg = "provider returned an error"
	}
	return msg
}

package hh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/sevigo/apply-warden/internal/core"
)

const (
	applyPath          = "/applicant/vacancy_response/popup"
	limitExceededError = "negotiations-limit-exceeded"
	xsrfCookie         = "_xsrf"
)

type applyResponse struct {
	Success string          `json:"success"`
	Error   json.RawMessage `json:"error"`
	Type    string          `json:"type"`
}

// Apply submits resume to the posting using the session in material.
// Only transport failures are returned as errors; every HTTP response is
// classified into an ApplyResult.
func (c *Client) Apply(ctx context.Context, material core.Material, resume core.Resume, postingID string) (core.ApplyResult, error) {
	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	for _, f := range [][2]string{
		{"resume_hash", resume.Hash},
		{"vacancy_id", postingID},
		{"lux", "true"},
		{"ignore_postponed", "true"},
		{"mark_applicant_visible_in_vacancy_country", "false"},
	} {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return core.ApplyResult{}, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return core.ApplyResult{}, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, applyPath, &form)
	if err != nil {
		return core.ApplyResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Xsrftoken", material[xsrfCookie])
	req.Header.Set("Cookie", FormatCookies(material))

	status, body, err := c.do(req)
	if err != nil {
		return core.ApplyResult{}, err
	}
	return classify(status, body), nil
}

func classify(status int, body []byte) core.ApplyResult {
	if status == http.StatusForbidden {
		return core.AuthRequired()
	}

	var resp applyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.Unknown(fmt.Sprintf("HTTP %d: invalid JSON response", status))
	}

	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		reason := errorText(resp.Error)
		if reason == limitExceededError {
			return core.RateLimited()
		}
		return core.Rejected(reason)
	}
	if resp.Type == "need-login" {
		return core.AuthRequired()
	}
	if resp.Success == "true" {
		return core.Success()
	}
	return core.Unknown(fmt.Sprintf("HTTP %d: %s", status, truncate(body, 200)))
}

// errorText returns the error field as plain text whether it is a JSON
// string or some other value.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var (
	_ core.PostingSource = (*Client)(nil)
	_ core.ApplyAction   = (*Client)(nil)
)

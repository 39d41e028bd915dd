package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// ReceiptUploadService posts receipt images to an unsigned upload endpoint
// (Cloudinary-style) and returns the hosted URL. The storefront compresses
// images before they get here.
type ReceiptUploadService struct {
	Endpoint string
	Preset   string
	Client   *http.Client
}

// NewReceiptUploadService reads RECEIPT_UPLOAD_URL and RECEIPT_UPLOAD_PRESET
// from the environment.
func NewReceiptUploadService() *ReceiptUploadService {
	return &ReceiptUploadService{
		Endpoint: os.Getenv("RECEIPT_UPLOAD_URL"),
		Preset:   os.Getenv("RECEIPT_UPLOAD_PRESET"),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ReceiptUploadService) Upload(ctx context.Context, image []byte, filename string) (string, error) {
	if s.Endpoint == "" {
		return "", errors.New("receipt upload endpoint not configured")
	}
	if filename == "" {
		filename = "receipt.jpg"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if s.Preset != "" {
		if err := writer.WriteField("upload_preset", s.Preset); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("receipt upload failed (%d): %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unexpected upload response: %w", err)
	}
	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", errors.New("upload response missing url")
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/elevate-api/internal/config"
	"github.com/yourusername/elevate-api/internal/domain/entity"
)

// MiladyEnrollment - ответ вендора на создание аккаунта и зачисление
type MiladyEnrollment struct {
	TemporaryPassword string
	LoginURL          string
	TransactionID     string
}

// VendorAPIClient абстрагирует прямой API вендора для тестирования
type VendorAPIClient interface {
	EnrollStudent(ctx context.Context, student *entity.StudentProfile, courseSKU string) (*MiladyEnrollment, error)
}

// MiladyAPIClient вызывает API школы Milady
type MiladyAPIClient struct {
	cfg        config.MiladyConfig
	httpClient *http.Client
}

// NewMiladyAPIClient создает новый клиент API Milady
func NewMiladyAPIClient(cfg config.MiladyConfig) (*MiladyAPIClient, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("milady api url is required")
	}
	if !cfg.APIConfigured() {
		return nil, fmt.Errorf("milady api credentials are required")
	}
	return &MiladyAPIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type miladyEnrollRequest struct {
	Student       miladyStudentPayload `json:"student"`
	CourseSKU     string               `json:"courseSku"`
	PaymentMethod string               `json:"paymentMethod"`
}

type miladyStudentPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

type miladyEnrollResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
	LoginURL          string `json:"loginUrl"`
	TransactionID     string `json:"transactionId"`
}

// EnrollStudent создает аккаунт студента у вендора и зачисляет на курс.
// Оплата идёт на счёт школы (school_account).
func (c *MiladyAPIClient) EnrollStudent(ctx context.Context, student *entity.StudentProfile, courseSKU string) (*MiladyEnrollment, error) {
	if courseSKU == "" {
		return nil, fmt.Errorf("course sku is required")
	}

	payload := miladyEnrollRequest{
		Student: miladyStudentPayload{
			Email:     student.Email,
			FirstName: student.FirstName,
			LastName:  student.LastName,
			Phone:     student.Phone,
		},
		CourseSKU:     courseSKU,
		PaymentMethod: "school_account",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enroll request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + "/v1/school/enroll"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build enroll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-School-ID", c.cfg.SchoolID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("milady api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("milady api error: %d", resp.StatusCode)
	}

	var data miladyEnrollResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode milady response: %w", err)
	}

	loginURL := data.LoginURL
	if loginURL == "" {
		loginURL = miladyLoginURL
	}

	return &MiladyEnrollment{
		TemporaryPassword: data.TemporaryPassword,
		LoginURL:          loginURL,
		TransactionID:     data.TransactionID,
	}, nil
}

// Package crm отправляет заявки на прием во внешнюю CRM через webhook.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Record заявка в том виде, в котором ее принимает CRM
type Record struct {
	FullName      string `json:"full_name"`
	DateOfBirth   string `json:"date_of_birth"`
	PreferredTime string `json:"preferred_time"`
	Platform      string `json:"platform"`
}

type Client struct {
	webhookURL string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func New(webhookURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// Submit отправляет заявку в CRM. Успехом считается любой 2xx-ответ.
// Повторных попыток нет: одна заявка — одна отправка.
func (c *Client) Submit(ctx context.Context, record Record) (bool, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("crm: сериализация заявки: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("crm: создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("crm: отправка заявки: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Тело ответа логируем, но никогда не показываем пользователю
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Errorw("CRM отклонила заявку",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return false, nil
	}

	return true, nil
}

package venuedirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент справочника площадок
// Справочник ведет отдельный сервис, здесь только чтение
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника площадок
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetVenue получает площадку по ID
func (c *Client) GetVenue(ctx context.Context, venueID int64) (*Venue, error) {
	url := fmt.Sprintf("%s/internal/venues/%d", c.baseURL, venueID)

	var venue Venue
	if err := c.get(ctx, url, &venue); err != nil {
		return nil, err
	}

	return &venue, nil
}

// ListVenues получает все площадки
func (c *Client) ListVenues(ctx context.Context) ([]Venue, error) {
	url := fmt.Sprintf("%s/internal/venues", c.baseURL)

	venues := make([]Venue, 0)
	if err := c.get(ctx, url, &venues); err != nil {
		return nil, err
	}

	return venues, nil
}

// FindByName ищет площадку по названию без учета регистра и крайних пробелов
func (c *Client) FindByName(ctx context.Context, name string) (*Venue, error) {
	venues, err := c.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	for i := range venues {
		if strings.EqualFold(strings.TrimSpace(venues[i].Name), name) {
			return &venues[i], nil
		}
	}

	c.log.Info("Venue not found by name=%q", name)
	return nil, ErrVenueNotFound
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Venue directory unavailable (url=%s): %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid venue ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return ErrVenueNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

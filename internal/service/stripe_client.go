package service

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeTransferClient абстрагирует перевод средств подключённому аккаунту вендора
type StripeTransferClient interface {
	CreateTransfer(ctx context.Context, amountCents int64, destination, transferGroup string, metadata map[string]string) (string, error)
}

// StripeClient реализует StripeTransferClient поверх Stripe API
type StripeClient struct {
	api *client.API
}

// NewStripeClient создает новый клиент Stripe
func NewStripeClient(secretKey string) (*StripeClient, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api}, nil
}

// CreateTransfer переводит средства на connected-аккаунт и возвращает id перевода
func (c *StripeClient) CreateTransfer(ctx context.Context, amountCents int64, destination, transferGroup string, metadata map[string]string) (string, error) {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Destination:   stripe.String(destination),
		TransferGroup: stripe.String(transferGroup),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	transfer, err := c.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed: %w", err)
	}
	return transfer.ID, nil
}

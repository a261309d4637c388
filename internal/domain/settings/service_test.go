package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"github.com/your-org/bakehouse-backend/internal/pkg/testdb"
)

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := NewService(testdb.Open(t, &WebsiteSettings{}))

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Teejay Bakehouse", got.BusinessName)
	assert.Equal(t, money.Amount(5000), got.DeliveryFee)
	assert.Equal(t, money.Amount(40000), got.FreeDeliveryThreshold)
}

func TestSaveUpsertsSingleRow(t *testing.T) {
	db := testdb.Open(t, &WebsiteSettings{})
	svc := NewService(db)
	ctx := context.Background()

	fee := decimal.RequireFromString("65.5")
	saved, err := svc.Save(ctx, &UpdateRequest{BusinessName: "Teejay", DeliveryFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(6550), saved.DeliveryFee)
	assert.Equal(t, money.Amount(40000), saved.FreeDeliveryThreshold)

	_, err = svc.Save(ctx, &UpdateRequest{BusinessName: "Teejay Bakehouse & Co"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&WebsiteSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Teejay Bakehouse & Co", got.BusinessName)
	assert.Equal(t, money.Amount(6550), got.DeliveryFee)
}

func TestSaveRejectsNegativeFees(t *testing.T) {
	svc := NewService(testdb.Open(t, &WebsiteSettings{}))

	fee := decimal.NewFromInt(-1)
	_, err := svc.Save(context.Background(), &UpdateRequest{BusinessName: "x", DeliveryFee: &fee})
	assert.True(t, errors.Is(err, ErrInvalidSettings))
}

func TestDeliveryFeeFor(t *testing.T) {
	s := Defaults()

	assert.Equal(t, money.Amount(5000), s.DeliveryFeeFor(money.MustParse("R399.99")))
	assert.Equal(t, money.Amount(0), s.DeliveryFeeFor(money.MustParse("R400")))

	s.FreeDeliveryThreshold = 0
	assert.Equal(t, money.Amount(5000), s.DeliveryFeeFor(money.MustParse("R10000")))
}

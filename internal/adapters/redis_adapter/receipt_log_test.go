package redis_a_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/test/helpers"
)

func receiptFor(items ...domain.CartItem) domain.Receipt {
	outcomes := make([]domain.DeleteOutcome, len(items))
	for i, item := range items {
		outcomes[i] = domain.DeleteOutcome{Item: item, OK: true}
	}
	return domain.NewReceipt(domain.CheckoutResult{Outcomes: outcomes})
}

func TestReceiptLog_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := redis_a.NewReceiptLog(client, 2, helpers.TestLogger())

	first := receiptFor(domain.CartItem{ID: 1, Content: "Apple", Amount: 3})
	second := receiptFor(domain.CartItem{ID: 2, Content: "Pear", Amount: 1})
	third := receiptFor(domain.CartItem{ID: 3, Content: "Plum", Amount: 2})

	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))
	require.NoError(t, log.Append(ctx, third))

	recent, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2, "list is capped")
	assert.Equal(t, third.ID, recent[0].ID)
	assert.Equal(t, second.ID, recent[1].ID)
	assert.Equal(t, 2, recent[0].TotalAmount)
}

func TestReceiptLog_RecentZeroLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := redis_a.NewReceiptLog(client, 0, helpers.TestLogger())

	recent, err := log.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

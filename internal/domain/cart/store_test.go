package cart

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/pkg/logger"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

var (
	cakeA = CartItem{ID: 1, Name: "Cake A", Price: money.MustParse("$10.00"), Image: "/a.png"}
	cakeB = CartItem{ID: 2, Name: "Cake B", Price: money.MustParse("$5.00"), Image: "/b.png"}
)

func newStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	return NewStore(context.Background(), storage, logger.Discard())
}

func TestAddToCartMergesRepeatedProducts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, NewMemoryStorage())

	for i := 0; i < 4; i++ {
		require.NoError(t, store.AddToCart(ctx, cakeA))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 4, store.ItemCount())
	assert.Equal(t, money.MustParse("$40.00"), store.Total())
}

func TestAddToCartIgnoresIncomingQuantity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, NewMemoryStorage())

	item := cakeB
	item.Quantity = 9
	require.NoError(t, store.AddToCart(ctx, item))

	assert.Equal(t, 1, store.ItemCount())
}

func TestCartTotalsAcrossLines(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, NewMemoryStorage())

	require.NoError(t, store.AddToCart(ctx, cakeA))
	require.NoError(t, store.AddToCart(ctx, cakeA))
	require.NoError(t, store.AddToCart(ctx, cakeB))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ID, "insertion order is display order")
	assert.Equal(t, uint(2), items[1].ID)
	assert.Equal(t, 3, store.ItemCount())
	assert.Equal(t, "$25.00", store.Total().String())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, NewMemoryStorage())
	require.NoError(t, store.AddToCart(ctx, cakeA))
	require.NoError(t, store.AddToCart(ctx, cakeB))

	require.NoError(t, store.UpdateQuantity(ctx, cakeA.ID, 5))
	assert.Equal(t, 6, store.ItemCount())
	assert.Equal(t, money.MustParse("$55.00"), store.Total())

	// unknown ids are ignored
	require.NoError(t, store.UpdateQuantity(ctx, 99, 3))
	assert.Equal(t, 2, store.Len())
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -20} {
		ctx := context.Background()
		viaUpdate := newStore(t, NewMemoryStorage())
		viaRemove := newStore(t, NewMemoryStorage())
		for _, s := range []*Store{viaUpdate, viaRemove} {
			require.NoError(t, s.AddToCart(ctx, cakeA))
			require.NoError(t, s.AddToCart(ctx, cakeB))
		}

		require.NoError(t, viaUpdate.UpdateQuantity(ctx, cakeA.ID, qty))
		require.NoError(t, viaRemove.RemoveFromCart(ctx, cakeA.ID))

		assert.Equal(t, viaRemove.Items(), viaUpdate.Items(), "quantity %d", qty)
		assert.Equal(t, []CartItem{{ID: 2, Name: "Cake B", Price: 500, Image: "/b.png", Quantity: 1}}, viaUpdate.Items())
	}
}

func TestRemoveFromCartMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newStore(t, storage)
	require.NoError(t, store.AddToCart(ctx, cakeA))
	before := storage.Raw()

	require.NoError(t, store.RemoveFromCart(ctx, 42))
	assert.Equal(t, before, storage.Raw())
	assert.Equal(t, 1, store.Len())
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newStore(t, storage)
	require.NoError(t, store.AddToCart(ctx, cakeA))
	require.NoError(t, store.AddToCart(ctx, cakeB))

	require.NoError(t, store.ClearCart(ctx))

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
	assert.Equal(t, money.Amount(0), store.Total())
	assert.JSONEq(t, `[]`, string(storage.Raw()))
}

func TestStoreRoundTripsThroughStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newStore(t, storage)
	require.NoError(t, store.AddToCart(ctx, cakeB))
	require.NoError(t, store.AddToCart(ctx, cakeA))
	require.NoError(t, store.UpdateQuantity(ctx, cakeA.ID, 3))

	reloaded := newStore(t, storage)

	assert.Equal(t, store.Items(), reloaded.Items())
	assert.Equal(t, store.Total(), reloaded.Total())
}

func TestStoreRehydratesLegacyPriceStrings(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetRaw([]byte(`[{"id":1,"name":"Classic Chocolate Cake","price":"$35.00","image":"/placeholder.svg","quantity":2}]`))

	store := newStore(t, storage)

	assert.Equal(t, money.Amount(7000), store.Total())
	assert.Equal(t, 2, store.ItemCount())
}

func TestStoreStartsEmptyOnBadData(t *testing.T) {
	cases := map[string][]byte{
		"not json":       []byte(`{{{`),
		"wrong shape":    []byte(`{"id":1}`),
		"zero quantity":  []byte(`[{"id":1,"name":"x","price":100,"quantity":0}]`),
		"duplicate line": []byte(`[{"id":1,"price":100,"quantity":1},{"id":1,"price":100,"quantity":1}]`),
		"bad price":      []byte(`[{"id":1,"price":"free","quantity":1}]`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			storage.SetRaw(raw)

			store := newStore(t, storage)

			assert.Empty(t, store.Items())
			assert.Equal(t, money.Amount(0), store.Total())
		})
	}
}

func TestStoreStartsEmptyOnReadError(t *testing.T) {
	storage := NewMemoryStorage()
	storage.LoadErr = errors.New("disk on fire")

	store := newStore(t, storage)
	assert.Empty(t, store.Items())
}

func TestMutationReportsPersistFailure(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newStore(t, storage)
	storage.SaveErr = errors.New("quota exceeded")

	err := store.AddToCart(ctx, cakeA)
	require.Error(t, err)
	assert.Equal(t, 1, store.ItemCount(), "in-memory state still reflects the mutation")
}

func TestUpdateQuantityAboveCapIsRejected(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newStore(t, storage)
	require.NoError(t, store.AddToCart(ctx, cakeA))

	err := store.UpdateQuantity(ctx, cakeA.ID, DefaultMaxQuantity+1)
	assert.True(t, errors.Is(err, ErrQuantityLimit))

	// a quantity that would wrap price x quantity in int64
	err = store.UpdateQuantity(ctx, cakeA.ID, math.MaxInt)
	assert.True(t, errors.Is(err, ErrQuantityLimit))

	assert.Equal(t, 1, store.ItemCount())
	assert.Equal(t, money.MustParse("$10.00"), store.Total())
	assert.Equal(t, 1, newStore(t, storage).ItemCount(), "rejected updates are not persisted")

	require.NoError(t, store.UpdateQuantity(ctx, cakeA.ID, DefaultMaxQuantity))
	assert.Equal(t, money.MustParse("$10.00").Mul(DefaultMaxQuantity), store.Total())
}

func TestAddToCartStopsAtCap(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), logger.Discard(), WithMaxQuantity(3))
	assert.Equal(t, 3, store.MaxQuantity())

	for i := 0; i < 3; i++ {
		require.NoError(t, store.AddToCart(ctx, cakeA))
	}
	err := store.AddToCart(ctx, cakeA)
	assert.True(t, errors.Is(err, ErrQuantityLimit))
	assert.Equal(t, 3, store.ItemCount())

	// other lines are unaffected
	require.NoError(t, store.AddToCart(ctx, cakeB))
	assert.Equal(t, 4, store.ItemCount())
}

func TestWithMaxQuantityIgnoresNonPositive(t *testing.T) {
	store := NewStore(context.Background(), NewMemoryStorage(), logger.Discard(), WithMaxQuantity(0))
	assert.Equal(t, DefaultMaxQuantity, store.MaxQuantity())
}

func TestStoreClampsStoredQuantityAboveCap(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetRaw([]byte(`[{"id":1,"name":"Cake A","price":1000,"image":"/a.png","quantity":4611686018427387904}]`))

	store := NewStore(context.Background(), storage, logger.Discard(), WithMaxQuantity(10))

	assert.Equal(t, 10, store.ItemCount())
	assert.Equal(t, money.Amount(10000), store.Total())
}

// cartModel is a plain reference for the store: quantities by id plus the
// order ids were first added.
type cartModel struct {
	order []uint
	qty   map[uint]int
}

func (m *cartModel) remove(id uint) {
	delete(m.qty, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func TestStoreMatchesModelOverRandomOperations(t *testing.T) {
	const maxQty = 8
	catalog := []CartItem{
		cakeA,
		cakeB,
		{ID: 3, Name: "Cupcakes", Price: money.MustParse("$2.50")},
		{ID: 4, Name: "Cookies", Price: money.MustParse("$0.99")},
	}
	prices := map[uint]money.Amount{}
	for _, item := range catalog {
		prices[item.ID] = item.Price
	}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		ctx := context.Background()
		storage := NewMemoryStorage()
		store := NewStore(ctx, storage, logger.Discard(), WithMaxQuantity(maxQty))
		model := &cartModel{qty: map[uint]int{}}

		for step := 0; step < 200; step++ {
			item := catalog[rng.Intn(len(catalog))]
			switch op := rng.Intn(10); {
			case op < 5:
				err := store.AddToCart(ctx, item)
				switch q, ok := model.qty[item.ID]; {
				case !ok:
					require.NoError(t, err)
					model.qty[item.ID] = 1
					model.order = append(model.order, item.ID)
				case q < maxQty:
					require.NoError(t, err)
					model.qty[item.ID]++
				default:
					require.True(t, errors.Is(err, ErrQuantityLimit), "seed %d step %d", seed, step)
				}
			case op < 8:
				n := rng.Intn(maxQty+4) - 2
				err := store.UpdateQuantity(ctx, item.ID, n)
				_, ok := model.qty[item.ID]
				switch {
				case n > maxQty:
					require.True(t, errors.Is(err, ErrQuantityLimit), "seed %d step %d", seed, step)
				case !ok:
					require.NoError(t, err)
				case n <= 0:
					require.NoError(t, err)
					model.remove(item.ID)
				default:
					require.NoError(t, err)
					model.qty[item.ID] = n
				}
			case op < 9:
				require.NoError(t, store.RemoveFromCart(ctx, item.ID))
				model.remove(item.ID)
			default:
				if rng.Intn(5) == 0 {
					require.NoError(t, store.ClearCart(ctx))
					model = &cartModel{qty: map[uint]int{}}
				}
			}

			var wantTotal money.Amount
			wantCount := 0
			for _, id := range model.order {
				wantTotal += prices[id].Mul(model.qty[id])
				wantCount += model.qty[id]
			}

			items := store.Items()
			require.Len(t, items, len(model.order), "seed %d step %d", seed, step)
			for i, line := range items {
				require.Equal(t, model.order[i], line.ID, "seed %d step %d: one line per id in insertion order", seed, step)
				require.Equal(t, model.qty[line.ID], line.Quantity, "seed %d step %d", seed, step)
				require.GreaterOrEqual(t, line.Quantity, 1)
				require.LessOrEqual(t, line.Quantity, maxQty)
			}
			require.Equal(t, wantCount, store.ItemCount(), "seed %d step %d", seed, step)
			require.Equal(t, wantTotal, store.Total(), "seed %d step %d", seed, step)
		}

		reloaded := NewStore(ctx, storage, logger.Discard(), WithMaxQuantity(maxQty))
		assert.Equal(t, store.Items(), reloaded.Items(), "seed %d", seed)
	}
}

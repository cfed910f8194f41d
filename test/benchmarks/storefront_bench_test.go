package benchmarks

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/view"
	"github.com/ammerola/storefront/test/helpers"
)

func BenchmarkRenderPage(b *testing.B) {
	renderer, err := view.NewRenderer()
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range []int{10, 100, 1000} {
		inventory := helpers.CreateTestInventory(size)
		cart := createLargeCart(inventory)
		pending := map[int]int{1: 3}

		b.Run(fmt.Sprintf("items_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = renderer.RenderPage(io.Discard, view.Page{
					Inventory: inventory,
					Cart:      cart,
					Pending:   pending,
					Editing:   map[int]domain.EditRow{},
				})
			}
		})
	}
}

func BenchmarkDispatch(b *testing.B) {
	ctrl, tb := createBenchmarkController(b, 100)
	ctx := context.Background()

	b.Run("Increment", func(b *testing.B) {
		cmd := services.Command{Region: services.RegionInventory, Action: services.ActionIncrement, ItemID: 1}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = ctrl.Dispatch(ctx, "bench", cmd)
		}
	})

	b.Run("AddToCart", func(b *testing.B) {
		inc := services.Command{Region: services.RegionInventory, Action: services.ActionIncrement, ItemID: 2}
		add := services.Command{Region: services.RegionInventory, Action: services.ActionAdd, ItemID: 2}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = ctrl.Dispatch(ctx, "bench", inc)
			_, _ = ctrl.Dispatch(ctx, "bench", add)
		}
	})

	b.Run("Checkout", func(b *testing.B) {
		inventory := helpers.CreateTestInventory(20)
		submit := services.Command{Region: services.RegionCheckout, Action: services.ActionSubmit}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			tb.SeedCart(createLargeCart(inventory)...)
			b.StartTimer()
			_, _ = ctrl.Dispatch(ctx, "bench", submit)
		}
	})
}

func BenchmarkParseCommand(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = services.ParseCommand("Cart", "save", "42")
	}
}

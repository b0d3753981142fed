package service

import (
	"context"
	"testing"

	"bundle-configurator/models"
)

func TestCartBusFanOut(t *testing.T) {
	bus := NewCartBus(nil)
	a, cancelA := bus.Subscribe(1)
	b, cancelB := bus.Subscribe(1)
	defer cancelB()

	evt := models.CartChanged{WidgetID: "w1", Cart: models.Cart{ItemCount: 2}}
	if err := bus.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := <-a; got.WidgetID != "w1" {
		t.Errorf("subscriber a got %+v", got)
	}
	if got := <-b; got.Cart.ItemCount != 2 {
		t.Errorf("subscriber b got %+v", got)
	}

	cancelA()
	cancelA()
	if _, ok := <-a; ok {
		t.Error("cancelled subscriber channel should be closed")
	}
}

func TestCartBusDropsWhenFull(t *testing.T) {
	bus := NewCartBus(nil)
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(context.Background(), models.CartChanged{WidgetID: "first"})
	bus.Publish(context.Background(), models.CartChanged{WidgetID: "second"})

	if got := <-ch; got.WidgetID != "first" {
		t.Errorf("got %q, want first", got.WidgetID)
	}
	select {
	case got := <-ch:
		t.Errorf("unexpected buffered event %q", got.WidgetID)
	default:
	}
}

func TestCartBusClose(t *testing.T) {
	bus := NewCartBus(nil)
	ch, cancel := bus.Subscribe(0)
	bus.Close()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close()")
	}

	late, _ := bus.Subscribe(0)
	if _, ok := <-late; ok {
		t.Error("subscribing after Close() should give a closed channel")
	}
}

// Package broadcast fans typed messages out to in-process subscribers.
//
// It carries the cross-component notifications of the configurator: the
// "open quote dialog" signal raised by product views and the toast stream
// consumed by the page shell. Producers never know who listens.
//
//	b := broadcast.NewMemoryBroadcaster[string](8)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	_ = b.Publish(ctx, "hello")
//	msg := <-sub.Receive(ctx)
//
// Slow subscribers lose messages instead of blocking the producer, and are
// dropped once their buffer overflows.
package broadcast

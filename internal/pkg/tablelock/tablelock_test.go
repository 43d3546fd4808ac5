package tablelock

import (
	"sync"
	"testing"
	"time"
)

func TestLockSerializesSameKey(t *testing.T) {
	locks := New()
	const workers = 64

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("table-1")
			v := counter
			time.Sleep(time.Microsecond) // widen the race window
			counter = v + 1
			locks.Unlock("table-1")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d (lost updates)", workers, counter)
	}
}

func TestDistinctKeysDoNotContend(t *testing.T) {
	locks := New()
	locks.Lock("table-a")
	defer locks.Unlock("table-a")

	done := make(chan struct{})
	go func() {
		locks.Lock("table-b")
		locks.Unlock("table-b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked behind table-a")
	}
}

// Models two concurrent 100-chip bets against a pot starting at 0: both must
// land and the pot must end at exactly 200.
func TestConcurrentBetsLoseNoUpdate(t *testing.T) {
	locks := New()
	pot := int64(0)
	chips := map[string]int64{"alice": 1000, "bob": 500}

	bet := func(player string, amount int64) {
		locks.Lock("friday")
		defer locks.Unlock("friday")

		balance := chips[player]
		current := pot
		time.Sleep(time.Millisecond) // stale-read window without the lock
		chips[player] = balance - amount
		pot = current + amount
	}

	var wg sync.WaitGroup
	for _, player := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			bet(p, 100)
		}(player)
	}
	wg.Wait()

	if pot != 200 {
		t.Fatalf("expected pot 200, got %d", pot)
	}
	if chips["alice"] != 900 || chips["bob"] != 400 {
		t.Fatalf("unexpected balances: %v", chips)
	}
}

func TestUnlockOfUnheldKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unlock of unheld key")
		}
	}()
	New().Unlock("never-locked")
}

package models

import (
	"fmt"
	"sync"
	"testing"
)

/**
 * Test concurrent writes into a signal set
 * @description
 * - Spawns many goroutines writing disjoint and overlapping names
 * - Verifies no write is lost and names stay unique
 */
func TestSignalSetConcurrentPut(t *testing.T) {
	set := NewSignalSet()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sig := Signal{
				Name:  fmt.Sprintf("probe.%d", i%10),
				Kind:  KindBoolean,
				State: StateOk,
			}
			if err := set.Put(sig); err != nil {
				t.Errorf("unexpected put error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// 10个不同名称，重复写入只覆盖不追加
	if set.Len() != 10 {
		t.Errorf("expected 10 unique signals, got %d", set.Len())
	}
}

/**
 * Test that re-collection overwrites instead of duplicating
 */
func TestSignalSetOverwrite(t *testing.T) {
	set := NewSignalSet()

	if err := set.Put(Signal{Name: "dns.local", Kind: KindResolvedAddress, State: StateError}); err != nil {
		t.Fatal(err)
	}
	if err := set.Put(Signal{Name: "dns.local", Kind: KindResolvedAddress, State: StateOk, Class: ClassReal}); err != nil {
		t.Fatal(err)
	}

	if set.Len() != 1 {
		t.Fatalf("expected 1 signal, got %d", set.Len())
	}
	sig, ok := set.Get("dns.local")
	if !ok {
		t.Fatal("signal not found")
	}
	if sig.State != StateOk {
		t.Errorf("expected overwritten state ok, got %s", sig.State)
	}
}

/**
 * Test that a frozen set rejects writes and keeps a stable freeze time
 */
func TestSignalSetFreeze(t *testing.T) {
	set := NewSignalSet()
	if err := set.Put(Signal{Name: "connectivity.direct", Kind: KindHTTPStatus, State: StateOk}); err != nil {
		t.Fatal(err)
	}

	set.Freeze()
	if !set.Frozen() {
		t.Fatal("set should be frozen")
	}
	froze := set.FrozenAt()

	if err := set.Put(Signal{Name: "late.signal", Kind: KindBoolean, State: StateOk}); err == nil {
		t.Error("expected error when writing to frozen set")
	}
	if set.Len() != 1 {
		t.Errorf("frozen set mutated, len=%d", set.Len())
	}

	// 重复冻结不改变冻结时间
	set.Freeze()
	if !set.FrozenAt().Equal(froze) {
		t.Error("freeze time changed on second Freeze call")
	}
}

/**
 * Test sorted name listing
 */
func TestSignalSetNames(t *testing.T) {
	set := NewSignalSet()
	for _, name := range []string{"proxy.port.7890.http", "dns.local", "connectivity.direct"} {
		if err := set.Put(Signal{Name: name, Kind: KindBoolean, State: StateOk}); err != nil {
			t.Fatal(err)
		}
	}

	names := set.Names()
	expected := []string{"connectivity.direct", "dns.local", "proxy.port.7890.http"}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want)
		}
	}
}

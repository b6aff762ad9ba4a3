package resource

import (
	"errors"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h := table.Insert("test")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = (%q, %v)", val, ok)
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove = (%q, %v)", val, ok)
	}

	if _, ok := table.Get(h); ok {
		t.Fatal("Get succeeded after Remove")
	}
	if table.Len() != 0 {
		t.Fatalf("Len() = %d after Remove, want 0", table.Len())
	}
}

func TestTable_InvalidHandles(t *testing.T) {
	table := NewTable[string]()
	table.Insert("a")

	if _, ok := table.Get(0); ok {
		t.Fatal("Get(0) succeeded")
	}
	if _, ok := table.Get(999); ok {
		t.Fatal("Get(999) succeeded")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("Remove(0) succeeded")
	}
	if _, ok := table.Remove(999); ok {
		t.Fatal("Remove(999) succeeded")
	}
}

func TestTable_SlotReuse(t *testing.T) {
	table := NewTable[int]()

	h1 := table.Insert(1)
	h2 := table.Insert(2)

	table.Remove(h1)
	h3 := table.Insert(3)

	// The freed slot is reused, so the handle value comes back.
	if h3 != h1 {
		t.Fatalf("expected freed handle %d to be reused, got %d", h1, h3)
	}

	if v, ok := table.Get(h3); !ok || v != 3 {
		t.Fatalf("Get(h3) = (%d, %v)", v, ok)
	}
	if v, ok := table.Get(h2); !ok || v != 2 {
		t.Fatalf("Get(h2) = (%d, %v)", v, ok)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable[int]()
	table.Insert(10)
	h := table.Insert(20)
	table.Insert(30)
	table.Remove(h)

	var sum int
	table.Each(func(_ Handle, v int) bool {
		sum += v
		return true
	})
	if sum != 40 {
		t.Fatalf("sum over live values = %d, want 40", sum)
	}

	// Early termination.
	count := 0
	table.Each(func(Handle, int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Each visited %d values after stop, want 1", count)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert("test")
	if len(obs.events) != 1 || obs.events[0].Type != EventCreated || obs.events[0].Handle != h {
		t.Fatalf("events after Insert: %+v", obs.events)
	}

	table.Remove(h)
	if len(obs.events) != 2 || obs.events[1].Type != EventDropped {
		t.Fatalf("events after Remove: %+v", obs.events)
	}

	table.Unsubscribe(obs)
	table.Insert("test2")
	if len(obs.events) != 2 {
		t.Fatal("received events after Unsubscribe")
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_DropperOnRemove(t *testing.T) {
	table := NewTable[*dropCounter]()
	d := &dropCounter{}

	h := table.Insert(d)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("Drop called %d times, want 1", d.count)
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable[*dropCounter]()
	d1 := &dropCounter{}
	d2 := &dropCounter{}
	table.Insert(d1)
	table.Insert(d2)

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d1.count != 1 || d2.count != 1 {
		t.Fatalf("Drop counts after Close: %d, %d", d1.count, d2.count)
	}

	// Inserts are rejected after Close.
	if h := table.Insert(&dropCounter{}); h != 0 {
		t.Fatalf("Insert after Close returned handle %d", h)
	}

	// Second Close is a recoverable failure, values are not re-dropped.
	if err := table.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v, want ErrClosed", err)
	}
	if d1.count != 1 {
		t.Fatalf("value dropped twice: %d", d1.count)
	}
}

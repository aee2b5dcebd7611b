package buildcache

import "testing"

func TestKeyIsStableForIdenticalInputs(t *testing.T) {
	a := Key("test.tw", "x: i32 = 0\n", Options{Optimize: false})
	b := Key("test.tw", "x: i32 = 0\n", Options{Optimize: false})
	if a != b {
		t.Fatalf("identical inputs produced different keys: %s vs %s", a, b)
	}
}

func TestKeyDistinguishesSource(t *testing.T) {
	a := Key("test.tw", "x: i32 = 0\n", Options{})
	b := Key("test.tw", "x: i32 = 1\n", Options{})
	if a == b {
		t.Fatalf("different source produced the same key")
	}
}

func TestKeyDistinguishesOptions(t *testing.T) {
	src := "x: i32 = 0\n"
	a := Key("test.tw", src, Options{Optimize: false})
	b := Key("test.tw", src, Options{Optimize: true})
	if a == b {
		t.Fatalf("different options produced the same key")
	}
}

func TestGetPutRoundTrips(t *testing.T) {
	c := New(8)
	key := Key("test.tw", "x: i32 = 0\n", Options{})
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	entry := Entry{WasmBytes: []byte{1, 2, 3}, OK: true}
	c.Put(key, entry)
	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	if string(got.WasmBytes) != string(entry.WasmBytes) {
		t.Errorf("got %v, want %v", got.WasmBytes, entry.WasmBytes)
	}
}

func TestPutEvictsEverythingWhenFull(t *testing.T) {
	c := New(1)
	c.Put("a", Entry{OK: true})
	c.Put("b", Entry{OK: true})
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected the simple clear-on-full policy to have evicted the first entry")
	}
	if _, ok := c.Get("b"); !ok {
		t.Errorf("expected the most recently inserted entry to still be present")
	}
}

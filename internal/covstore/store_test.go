package covstore

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testMatrix() *mat.SymDense {
	m := mat.NewSymDense(5, nil)
	for i := 0; i < 5; i++ {
		m.SetSym(i, i, float64(i+1))
	}
	m.SetSym(0, 2, -0.25)
	m.SetSym(1, 4, 0.5)
	return m
}

func TestPutAndMatrixRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.db")
	store, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	want := testMatrix()
	if err := store.Put("covmat_ptbin00_etabin00", want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Matrix("covmat_ptbin00_etabin00")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("stored matrix reported absent")
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > 0 {
				t.Errorf("entry (%d,%d) = %v, want %v", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestAbsentKeyIsNotAnError(t *testing.T) {
	store, err := Create(filepath.Join(t.TempDir(), "params.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m, ok, err := store.Matrix("covmat_ptbin07_etabin08")
	if err != nil {
		t.Fatalf("absent key must not error, got %v", err)
	}
	if ok || m != nil {
		t.Error("absent key reported present")
	}
}

func TestOpenMissingFileFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("opening a missing parametrisation file must fail")
	}
}

func TestReopenExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.db")
	store, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put("covmat_ptbin01_etabin02", testMatrix()); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	_, ok, err := reopened.Matrix("covmat_ptbin01_etabin02")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("matrix lost across reopen")
	}
}

func TestNames(t *testing.T) {
	store, err := Create(filepath.Join(t.TempDir(), "params.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, name := range []string{"covmat_ptbin01_etabin00", "covmat_ptbin00_etabin00"} {
		if err := store.Put(name, testMatrix()); err != nil {
			t.Fatal(err)
		}
	}
	names, err := store.Names()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"covmat_ptbin00_etabin00", "covmat_ptbin01_etabin00"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

package sortengine

import (
	"os"
	"path/filepath"
	"testing"
)

func writeElementsFile(t *testing.T, path string, vals []uint64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := writeHeader(f, uint64(len(vals))); err != nil {
		t.Fatal(err)
	}
	raw := make([]byte, len(vals)*elemSize)
	encodeElements(raw, vals)
	if _, err := f.Write(raw); err != nil {
		t.Fatal(err)
	}
}

func readElementsFile(t *testing.T, path string) []uint64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	n, err := readHeader(f)
	if err != nil {
		t.Fatal(err)
	}
	raw := make([]byte, n*elemSize)
	if _, err := readFull(f, raw); err != nil {
		t.Fatal(err)
	}
	vals := make([]uint64, n)
	decodeElements(vals, raw)
	return vals
}

func runSort(t *testing.T, vals []uint64, memoryElems, fanIn int) []uint64 {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.bin")
	outPath := filepath.Join(dir, "output.bin")
	writeElementsFile(t, inPath, vals)

	in, err := os.Open(inPath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	if err := Sort(in, out, memoryElems, fanIn); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	return readElementsFile(t, outPath)
}

func assertSorted(t *testing.T, got []uint64) {
	t.Helper()
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted at %d: %d > %d (%v)", i, got[i-1], got[i], got)
		}
	}
}

func assertSameMultiset(t *testing.T, got, want []uint64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	counts := make(map[uint64]int, len(want))
	for _, v := range want {
		counts[v]++
	}
	for _, v := range got {
		counts[v]--
	}
	for v, c := range counts {
		if c != 0 {
			t.Fatalf("multiset mismatch at value %d: delta %d", v, c)
		}
	}
}

// S1: empty input.
func TestSortEmpty(t *testing.T) {
	got := runSort(t, nil, 512, 5)
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

// S2: single element.
func TestSortSingleElement(t *testing.T) {
	got := runSort(t, []uint64{42}, 512, 5)
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("expected [42], got %v", got)
	}
}

// S3: fits in memory.
func TestSortFitsInMemory(t *testing.T) {
	in := []uint64{5, 1, 4, 2, 3}
	got := runSort(t, in, 512, 5)
	assertSorted(t, got)
	assertSameMultiset(t, got, in)
	want := []uint64{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

// S4: one full run plus tail, M=4.
func TestSortOneFullRunPlusTail(t *testing.T) {
	in := []uint64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	got := runSort(t, in, 4, 2)
	assertSorted(t, got)
	assertSameMultiset(t, got, in)
	for i, v := range got {
		if v != uint64(i) {
			t.Fatalf("got %v, want 0..9", got)
		}
	}
}

// S5: duplicates, M=4.
func TestSortDuplicates(t *testing.T) {
	in := []uint64{3, 1, 3, 1, 3, 1}
	got := runSort(t, in, 4, 2)
	want := []uint64{1, 1, 1, 3, 3, 3}
	assertSorted(t, got)
	assertSameMultiset(t, got, in)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

// S6: k-way merge, k=3.
func TestSortKWayMergeThreeFanIn(t *testing.T) {
	in := []uint64{9, 1, 5, 2, 8, 4, 3, 7, 6}
	got := runSort(t, in, 12, 3)
	want := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assertSorted(t, got)
	assertSameMultiset(t, got, in)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

// Idempotence: sorting an already-sorted file yields a byte-identical output.
func TestSortIdempotent(t *testing.T) {
	in := make([]uint64, 37)
	for i := range in {
		in[i] = uint64(i)
	}
	first := runSort(t, in, 8, 3)
	second := runSort(t, first, 8, 3)
	assertSameMultiset(t, second, first)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("not idempotent at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

// Larger descending input spanning many cascading merge passes.
func TestSortManyRunsCascade(t *testing.T) {
	n := 500
	in := make([]uint64, n)
	for i := range in {
		in[i] = uint64(n-1) - uint64(i)
	}
	got := runSort(t, in, 10, 2)
	assertSorted(t, got)
	assertSameMultiset(t, got, in)
}

func TestSortRejectsSmallBudget(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.bin")
	outPath := filepath.Join(dir, "output.bin")
	writeElementsFile(t, inPath, []uint64{1, 2, 3})

	in, err := os.Open(inPath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	err = Sort(in, out, 2, 5)
	if err == nil {
		t.Fatal("expected an error for memoryElems < fanIn+1")
	}
}

func TestSortRejectsFanInBelowTwo(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.bin")
	outPath := filepath.Join(dir, "output.bin")
	writeElementsFile(t, inPath, []uint64{1})

	in, err := os.Open(inPath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	if err := Sort(in, out, 8, 1); err == nil {
		t.Fatal("expected an error for fanIn < 2")
	}
}

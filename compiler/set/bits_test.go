package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetClear(t *testing.T) {
	var s Bitmap

	assert.True(t, s.Empty())
	assert.False(t, s.IsSet(100))

	assert.True(t, s.Set(3))
	assert.False(t, s.Set(3))
	assert.True(t, s.IsSet(3))
	assert.False(t, s.Empty())

	assert.True(t, s.Set(200))
	assert.True(t, s.IsSet(200))

	assert.True(t, s.Clear(200))
	assert.False(t, s.Clear(200))
	assert.False(t, s.IsSet(200))

	assert.False(t, s.Clear(5000))
	assert.False(t, s.IsSet(5000))

	assert.Equal(t, 1, s.Size())
	assert.Equal(t, 3, s.First())

	s.Reset()

	assert.True(t, s.Empty())
	assert.Equal(t, -1, s.First())
}

func TestRange(t *testing.T) {
	var s Bitmap

	s.SetAll(40, 1, 33, 90)

	assert.Equal(t, []int{1, 33, 40, 90}, s.Slice())

	var got []int

	s.Range(func(k int) bool {
		got = append(got, k)

		return len(got) < 2
	})

	assert.Equal(t, []int{1, 33}, got)
}

func TestUnion(t *testing.T) {
	var a, b Bitmap

	a.SetAll(9, 23, 18, 72)
	b.SetAll(7, 23, 1337)

	changed := a.Or(&b)

	assert.True(t, changed)
	assert.Equal(t, []int{7, 9, 18, 23, 72, 1337}, a.Slice())

	changed = a.Or(&b)

	assert.False(t, changed)
	assert.Equal(t, []int{7, 9, 18, 23, 72, 1337}, a.Slice())
}

func TestAlgebra(t *testing.T) {
	var a, b Bitmap

	a.SetAll(1337, 42, 7, 1)
	b.SetAll(42, 127, 2, 7)

	and := a.Copy()
	and.And(&b)

	assert.Equal(t, []int{7, 42}, and.Slice())

	xor := a.Copy()
	xor.Xor(&b)

	assert.Equal(t, []int{1, 2, 127, 1337}, xor.Slice())

	sub := a.Copy()
	sub.AndNot(&b)

	assert.Equal(t, []int{1, 1337}, sub.Slice())

	sub = b.Copy()
	sub.AndNot(&a)

	assert.Equal(t, []int{2, 127}, sub.Slice())

	assert.Equal(t, []int{1, 7, 42, 1337}, a.Slice())
	assert.Equal(t, []int{2, 7, 42, 127}, b.Slice())
}

func TestNextClear(t *testing.T) {
	var s Bitmap

	for i := 0; i < 31; i++ {
		s.Set(i)
	}

	assert.Equal(t, 31, s.NextClear(0))

	s.Set(31)

	assert.Equal(t, 32, s.NextClear(0))

	for i := 32; i < 63; i++ {
		s.Set(i)
	}

	assert.Equal(t, 63, s.NextClear(0))

	s.Set(63)

	assert.Equal(t, 64, s.NextClear(0))

	s.Clear(40)

	assert.Equal(t, 40, s.NextClear(33))
	assert.Equal(t, 64, s.NextClear(41))

	assert.Equal(t, 1000, s.NextClear(1000))

	var e Bitmap

	assert.Equal(t, 5, e.NextClear(5))
}

func TestFindClearRange(t *testing.T) {
	var s Bitmap

	s.SetAll(0, 4, 5, 6, 7, 61, 128, 129, 130)

	assert.Equal(t, 1, s.FindClearRange(0, 1, 1, 0))
	assert.Equal(t, 8, s.FindClearRange(4, 1, 1, 0))
	assert.Equal(t, 8, s.FindClearRange(0, 4, 4, 0))
	assert.Equal(t, 2, s.FindClearRange(0, 2, 4, 2))
	assert.Equal(t, 64, s.FindClearRange(40, 16, 16, 0))
	assert.Equal(t, 1337, s.FindClearRange(1337, 1, 1, 0))
}

func TestFindClearRangeFull(t *testing.T) {
	var s Bitmap

	for i := 0; i < 96; i++ {
		s.Set(i)
	}

	s.Clear(77)

	assert.Equal(t, 77, s.FindClearRange(0, 1, 1, 0))
	assert.Equal(t, 96, s.FindClearRange(0, 2, 2, 0))
	assert.Equal(t, 96, s.FindClearRange(0, 8, 8, 0))

	s.Clear(64)
	s.Clear(65)
	s.Clear(66)

	assert.Equal(t, 64, s.FindClearRange(0, 2, 2, 0))
	assert.Equal(t, 65, s.FindClearRange(0, 2, 4, 1))
}

func TestFindClearRangePanics(t *testing.T) {
	var s Bitmap

	require.Panics(t, func() { s.FindClearRange(0, 0, 1, 0) })
	require.Panics(t, func() { s.FindClearRange(0, 1, 32, 0) })
	require.Panics(t, func() { s.FindClearRange(0, 1, 3, 0) })
	require.Panics(t, func() { s.FindClearRange(0, 3, 4, 2) })
}

func TestReserve(t *testing.T) {
	var s Bits[int32]

	s.Reserve(1000)

	assert.True(t, s.Empty())
	assert.True(t, s.Set(999))
	assert.Equal(t, []int32{999}, s.Slice())
}

func TestTypedKeys(t *testing.T) {
	type expr int

	var s Bits[expr]

	s.Set(expr(5))
	s.Set(expr(70))

	assert.True(t, s.IsSet(expr(5)))
	assert.False(t, s.IsSet(expr(6)))
	assert.Equal(t, []expr{5, 70}, s.Slice())
	assert.Equal(t, expr(5), s.First())
}

func TestCopyIndependent(t *testing.T) {
	var a Bitmap

	a.SetAll(1, 2, 3)

	b := a.Copy()
	b.Set(4)
	b.Clear(1)

	if got := a.Slice(); len(got) != 3 {
		t.Errorf("copy aliases the source: %v", got)
	}

	assert.Equal(t, []int{2, 3, 4}, b.Slice())
}

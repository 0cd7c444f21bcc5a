package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/skyraid/internal/config"
)

func TestLotteryRejectsBadTables(t *testing.T) {
	_, err := NewLottery[string](nil, nil)
	assert.ErrorIs(t, err, ErrEmptyLottery)

	_, err = NewLottery([]string{"a", "b"}, []float64{1})
	assert.Error(t, err)

	_, err = NewLottery([]string{"a", "b"}, []float64{1, 0})
	assert.Error(t, err)

	_, err = NewLottery([]string{"a"}, []float64{-1})
	assert.Error(t, err)
}

func TestLotteryPick(t *testing.T) {
	l, err := NewLottery([]string{"a", "b"}, []float64{1, 3})
	require.NoError(t, err)

	rnd := newScriptRand(0, 0.2, 0.25, 0.99)
	assert.Equal(t, "a", l.Pick(rnd))
	assert.Equal(t, "a", l.Pick(rnd))
	assert.Equal(t, "b", l.Pick(rnd), "0.25 * 4 falls on the boundary into b")
	assert.Equal(t, "b", l.Pick(rnd))
}

func TestLotteryMatchesWeights(t *testing.T) {
	l, err := NewLottery([]int{0, 1, 2}, []float64{40, 25, 35})
	require.NoError(t, err)
	counts := make([]int, 3)
	rnd := &scriptRand{}
	for i := 0; i < 1000; i++ {
		rnd.fallback = (float64(i) + 0.5) / 1000
		counts[l.Pick(rnd)]++
	}
	assert.Equal(t, []int{400, 250, 350}, counts)
}

func TestSchedulerRunsInTimeOrder(t *testing.T) {
	var s Scheduler
	var order []string
	s.Schedule(300*time.Millisecond, 1, func() { order = append(order, "late") })
	s.Schedule(100*time.Millisecond, 1, func() { order = append(order, "first") })
	s.Schedule(100*time.Millisecond, 2, func() { order = append(order, "second") })

	assert.Equal(t, 0, s.RunDue(50*time.Millisecond))
	assert.Equal(t, 2, s.RunDue(200*time.Millisecond))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, s.Len())

	s.RunDue(time.Second)
	assert.Equal(t, []string{"first", "second", "late"}, order)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerRunsChainedEvents(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Schedule(100*time.Millisecond, ownerLevel, func() {
		ran++
		s.Schedule(150*time.Millisecond, ownerLevel, func() { ran++ })
		s.Schedule(time.Second, ownerLevel, func() { ran++ })
	})

	assert.Equal(t, 2, s.RunDue(200*time.Millisecond))
	assert.Equal(t, 2, ran)
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerCancel(t *testing.T) {
	var s Scheduler
	fired := false
	s.Schedule(time.Millisecond, 7, func() { fired = true })
	s.Schedule(time.Millisecond, 7, func() { fired = true })
	s.Schedule(time.Millisecond, ownerLevel, func() {})

	assert.Equal(t, 2, s.Pending(7))
	assert.Equal(t, 2, s.Cancel(7))
	assert.Equal(t, 0, s.Pending(7))
	assert.Equal(t, 1, s.Len())

	s.CancelAll()
	assert.Equal(t, 0, s.RunDue(time.Hour))
	assert.False(t, fired)
}

func TestComboMultiplier(t *testing.T) {
	rules := config.Full().Combo
	c := newCombo()
	prev := c.Multiplier
	for i := 1; i <= 100; i++ {
		c.Kill(0, rules)
		require.GreaterOrEqual(t, c.Multiplier, prev)
		prev = c.Multiplier
		switch i {
		case 4:
			assert.Equal(t, 1.0, c.Multiplier)
		case 5:
			assert.Equal(t, 1.5, c.Multiplier)
		case 10:
			assert.Equal(t, 2.0, c.Multiplier)
		}
	}
	assert.Equal(t, 5.0, c.Multiplier)
}

func TestComboWindow(t *testing.T) {
	rules := config.Full().Combo
	c := newCombo()
	c.Kill(time.Second, rules)

	assert.Equal(t, time.Second, c.Remaining(3*time.Second, rules))
	assert.False(t, c.Expire(4*time.Second, rules))
	assert.True(t, c.Expire(4*time.Second+time.Nanosecond, rules))
	assert.Equal(t, 0, c.Streak)
	assert.Equal(t, 1.0, c.Multiplier)
	assert.Equal(t, time.Duration(0), c.Remaining(5*time.Second, rules))
}

func TestShakeDecays(t *testing.T) {
	var s Shake
	assert.False(t, s.Active())

	s.Trigger(10, time.Second)
	assert.Equal(t, 10.0, s.Intensity())

	s.Update(500 * time.Millisecond)
	assert.True(t, s.Active())
	assert.Greater(t, s.Intensity(), 0.0)
	assert.Less(t, s.Intensity(), 10.0)

	s.Update(600 * time.Millisecond)
	assert.False(t, s.Active())
	assert.Equal(t, 0.0, s.Intensity())
}

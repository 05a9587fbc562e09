package divider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// divide runs one job to the done pulse and returns the quotient, the
// zero-divide flag and the tick count from Load through done.
func divide(t *testing.T, dividend, divisor int) (int, bool, int) {
	t.Helper()
	return runJob(t, New(), dividend, divisor)
}

func TestQuotients(t *testing.T) {
	tests := []struct {
		dividend, divisor int
		want              int
	}{
		{84, 2, 42},
		{7, 7, 1},
		{8, 7, 1},
		{6, 7, 0},
		{0, 5, 0},
		{100, 3, 33},
		{9999, 1, 9999},
		{12, 7, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_div_%d", tt.dividend, tt.divisor), func(t *testing.T) {
			q, zero, ticks := divide(t, tt.dividend, tt.divisor)
			require.False(t, zero)
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.want+2, ticks, "latency is quotient plus two ticks")
		})
	}
}

func TestDivideByZero(t *testing.T) {
	for _, dividend := range []int{0, 1, 8, 9999} {
		t.Run(fmt.Sprintf("%d_div_0", dividend), func(t *testing.T) {
			_, zero, _ := divide(t, dividend, 0)
			assert.True(t, zero)
		})
	}
}

func TestDonePulseLastsOneTick(t *testing.T) {
	d := New()
	d.Step(true, 10, 3)
	doneTicks := 0
	for i := 0; i < 50; i++ {
		d.Step(false, 0, 0)
		if d.Done {
			doneTicks++
		}
	}
	assert.Equal(t, 1, doneTicks)
}

func TestStartIgnoredWhileBusy(t *testing.T) {
	d := New()
	d.Step(true, 20, 4)
	// a second start mid-job must not disturb the running division
	d.Step(true, 9, 1)
	for i := 0; i < 50; i++ {
		d.Step(false, 0, 0)
		if d.Done {
			assert.Equal(t, 5, d.Quotient)
			return
		}
	}
	t.Fatal("no done pulse")
}

func TestBackToBackJobs(t *testing.T) {
	d := New()
	q, zero, _ := runJob(t, d, 15, 4)
	require.False(t, zero)
	require.Equal(t, 3, q)

	q, zero, _ = runJob(t, d, 5, 0)
	assert.True(t, zero)
	_ = q
}

func runJob(t *testing.T, d *Divider, dividend, divisor int) (int, bool, int) {
	t.Helper()
	d.Step(true, dividend, divisor)
	for n := 1; n <= dividend+10; n++ {
		d.Step(false, 0, 0)
		if d.Done {
			return d.Quotient, d.DivZero, n
		}
	}
	t.Fatalf("no done pulse for %d/%d", dividend, divisor)
	return 0, false, 0
}

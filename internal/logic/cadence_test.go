package logic

import "testing"

func TestCadenceTickPeriod(t *testing.T) {
	c := NewCadence(10)
	fired := 0
	for i := 1; i <= 100; i++ {
		if c.Tick() {
			fired++
			if i%10 != 0 {
				t.Errorf("fired at tick %d, expected multiples of 10", i)
			}
		}
	}
	if fired != 10 {
		t.Errorf("expected 10 firings in 100 ticks, got %d", fired)
	}
}

func TestCadencePeriodOne(t *testing.T) {
	c := NewCadence(1)
	for i := 0; i < 5; i++ {
		if !c.Tick() {
			t.Errorf("tick %d: period 1 cadence should fire every tick", i)
		}
	}

	z := NewCadence(0)
	if !z.Tick() {
		t.Error("zero period should behave as period 1")
	}
}

func TestCadenceGateSaturates(t *testing.T) {
	c := NewCadence(100)
	for i := 0; i < 99; i++ {
		c.Advance()
	}
	if c.Due() {
		t.Fatal("gate due before 100 ticks")
	}
	for i := 0; i < 500; i++ {
		c.Advance()
	}
	if !c.Due() {
		t.Fatal("gate should stay due while not reset")
	}
	if c.Count() != 100 {
		t.Errorf("expected count to saturate at 100, got %d", c.Count())
	}
	c.Reset()
	if c.Due() {
		t.Error("gate due right after reset")
	}
}

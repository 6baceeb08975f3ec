package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	got := Percent(VND(100000), VND(10))
	assert.True(t, got.Equal(VND(10000)))

	// 15% của 33.333 làm tròn 2 chữ số
	got = Percent(VND(33333), VND(15))
	assert.True(t, got.Equal(decimal.NewFromFloat(4999.95)))
}

func TestMinMoney(t *testing.T) {
	assert.True(t, MinMoney(VND(5000), VND(8000)).Equal(VND(5000)))
	assert.True(t, MinMoney(VND(8000), VND(5000)).Equal(VND(5000)))
}

func TestCapMoney(t *testing.T) {
	cap := VND(15000)
	assert.True(t, CapMoney(VND(20000), &cap).Equal(VND(15000)))
	assert.True(t, CapMoney(VND(10000), &cap).Equal(VND(10000)))
	assert.True(t, CapMoney(VND(20000), nil).Equal(VND(20000)))
}

func TestSubFloorZero(t *testing.T) {
	assert.True(t, SubFloorZero(VND(100000), VND(30000)).Equal(VND(70000)))
	assert.True(t, SubFloorZero(VND(30000), VND(100000)).IsZero())
	assert.True(t, SubFloorZero(VND(30000), VND(30000)).IsZero())
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(VND(29000), 3).Equal(VND(87000)))
	assert.True(t, LineTotal(decimal.NewFromFloat(29000.555), 2).Equal(decimal.NewFromFloat(58001.11)))
}

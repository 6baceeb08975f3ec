package utils

import "github.com/shopspring/decimal"

// Tiền tệ tính bằng decimal cố định 2 chữ số, không dùng float trong
// bất kỳ phép tính giá nào.

var oneHundred = decimal.NewFromInt(100)

// VND tạo số tiền từ đồng nguyên
func VND(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}

// MoneyRound làm tròn về 2 chữ số thập phân
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent tính value × percent / 100
func Percent(value, percent decimal.Decimal) decimal.Decimal {
	return MoneyRound(value.Mul(percent).Div(oneHundred))
}

// MinMoney trả về số nhỏ hơn
func MinMoney(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// CapMoney giới hạn value không vượt quá cap, cap nil = không giới hạn
func CapMoney(value decimal.Decimal, cap *decimal.Decimal) decimal.Decimal {
	if cap != nil && value.GreaterThan(*cap) {
		return *cap
	}
	return value
}

// SubFloorZero trả về a − b, không âm
func SubFloorZero(a, b decimal.Decimal) decimal.Decimal {
	r := a.Sub(b)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// LineTotal tính thành tiền một dòng món
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return MoneyRound(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

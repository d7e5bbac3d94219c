// Package pricing вычисляет стоимость покупки дней подписки.
package pricing

import "math"

// Calculator считает сумму к оплате по количеству дней и мест.
// Базовая цена задаётся за 30 дней на одно место, скидка берётся из таблицы
// по точному совпадению количества дней.
type Calculator struct {
	basePrice int
	discounts map[int]float64
}

// New создает Calculator с базовой ценой и таблицей скидок.
func New(basePrice int, discounts map[int]float64) *Calculator {
	return &Calculator{basePrice: basePrice, discounts: discounts}
}

// Amount возвращает целую сумму к оплате.
//
// subtotal = basePrice/30 * days * seats, затем применяется скидка и
// банковское округление (math.RoundToEven): 142.5 -> 142. Результат
// детерминирован и записывается в платеж без пересчёта.
// Отрицательные days или seats не отклоняются и дают отрицательную сумму.
func (c *Calculator) Amount(days, seats int) int {
	perDay := float64(c.basePrice) / 30.0
	subtotal := perDay * float64(days) * float64(seats)
	discount := c.discounts[days]
	return int(math.RoundToEven(subtotal * (1.0 - discount)))
}

// Package confirmation выдаёт шестизначные номера подтверждения заказов.
package confirmation

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	Min = 100000
	Max = 999999
)

// Generator выдаёт номера равномерно на отрезке [Min, Max].
// Безопасен для конкурентного использования.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New создаёт генератор поверх заданного источника случайности.
// В тестах удобно передавать источник с фиксированным seed.
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewSeeded создаёт генератор с seed от текущего времени.
func NewSeeded() *Generator {
	now := uint64(time.Now().UnixNano())
	return New(rand.NewPCG(now, now>>32|now<<32))
}

func (g *Generator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Min + g.rnd.IntN(Max-Min+1)
}
